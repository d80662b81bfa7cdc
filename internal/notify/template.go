package notify

import (
	"sort"
	"strings"
	"text/template"

	"github.com/vietddude/storecore/internal/core/domain"
)

// Built-in default template. Dynamic template fetching is a deferred
// capability; the hot path never loads templates externally.
var orderEmailTmpl = template.Must(template.New("order_email").Parse(
	`Hi {{.CustomerName}},

Thank you for your order{{if .OrderID}} #{{.OrderID}}{{end}}.
{{- if .Total}}
Order total: {{.Total}}.
{{- end}}
{{- range .Extra}}
{{.}}
{{- end}}

We will notify you when it ships.
`))

type orderEmailData struct {
	CustomerName string
	OrderID      string
	Total        string
	Extra        []string
}

// renderOrderEmail produces the subject and body for a job from the
// built-in template. Unknown params are appended as plain lines so a
// template change never drops caller-supplied information.
func renderOrderEmail(job domain.NotificationJob) (subject, body string) {
	subject = job.Subject
	if subject == "" {
		subject = "Your order confirmation"
	}

	data := orderEmailData{CustomerName: "there"}
	extraKeys := make([]string, 0, len(job.Params))
	for k, v := range job.Params {
		switch k {
		case "customer_name":
			data.CustomerName = v
		case "order_id":
			data.OrderID = v
		case "total":
			data.Total = v
		default:
			extraKeys = append(extraKeys, k+": "+v)
		}
	}
	sort.Strings(extraKeys)
	data.Extra = extraKeys

	var buf strings.Builder
	if err := orderEmailTmpl.Execute(&buf, data); err != nil {
		// The template is compiled in; execution over plain strings
		// cannot realistically fail, but never send an empty body.
		return subject, "Thank you for your order."
	}
	return subject, buf.String()
}
