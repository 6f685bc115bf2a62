package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"notification_events", "approval_decisions", "requests", "reservations", "vacation_balances", "employees"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		seedEmployee := func(email, name, accessLevel string, managerID *int64) int64 {
			var id int64
			if err := db.QueryRow("SELECT id FROM employees WHERE email = $1", email).Scan(&id); err == nil {
				fmt.Printf("employee %s already exists\n", email)
				return id
			}

			err := db.QueryRow(
				`INSERT INTO employees (email, name, password_hash, access_level, manager_id, status, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, 'active', now(), now()) RETURNING id`,
				email, name, string(hash), accessLevel, managerID,
			).Scan(&id)
			if err != nil {
				log.Fatalf("failed to insert employee %s: %v", email, err)
			}
			fmt.Printf("Seeded employee: %s (%s)\n", email, accessLevel)
			return id
		}

		adminID := seedEmployee("admin@nexus-hr.dev", "Alex Admin", "admin", nil)
		hrID := seedEmployee("hr@nexus-hr.dev", "Harper HR", "hr", &adminID)
		managerID := seedEmployee("manager@nexus-hr.dev", "Morgan Manager", "manager", &adminID)
		employeeID := seedEmployee("employee@nexus-hr.dev", "Emery Employee", "employee", &managerID)
		seedEmployee("recruiter@nexus-hr.dev", "Riley Recruiter", "employee", &hrID)

		// Provision a current-year balance for the regular employee so the
		// demo flows have days to spend.
		year := time.Now().Year()
		var exists int
		if err := db.QueryRow("SELECT 1 FROM vacation_balances WHERE employee_id = $1 AND year = $2", employeeID, year).Scan(&exists); err != nil {
			if _, err := db.Exec(
				`INSERT INTO vacation_balances (employee_id, year, available_days, days_taken, days_reserved, created_at, updated_at)
				 VALUES ($1, $2, $3, 0, 0, now(), now())`,
				employeeID, year, cfg.Workflow.DefaultAnnualDays,
			); err != nil {
				log.Fatalf("failed to insert vacation balance: %v", err)
			}
			fmt.Printf("Seeded vacation balance: employee %d, year %d, %d days\n", employeeID, year, cfg.Workflow.DefaultAnnualDays)
		}

		fmt.Println("Seeding complete. All accounts use password:", password)
	},
}
