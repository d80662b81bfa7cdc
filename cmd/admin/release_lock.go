// Command admin force-releases the global ordering lock directly in the
// database, for when the admin API itself is unreachable.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const releaseLockSQL = `
UPDATE settings
SET data = data || '{"global_lock": false, "lock_until": null, "lock_message": ""}'::jsonb,
    updated_at = now()
WHERE name = $1
`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatalf("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	res, err := db.Exec(releaseLockSQL, "store")
	if err != nil {
		panic(err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		fmt.Println("No settings row named 'store'; nothing to release")
		return
	}
	fmt.Println("Global ordering lock released")
}
