// Seeds demo users and tasks. Destructive: wipes existing rows first.
//
//	go run ./cmd/seed
package main

import (
	"context"
	"log"
	"time"

	"taskboard/internal/config"
	dom "taskboard/internal/domain"
	"taskboard/internal/repo"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	name  string
	email string
}

var demoUsers = []demoUser{
	{"Admin User", "admin@example.com"},
	{"John Doe", "john@example.com"},
	{"Jane Smith", "jane@example.com"},
}

type demoTask struct {
	owner       int // index into demoUsers
	title       string
	description string
	status      string
}

var demoTasks = []demoTask{
	{0, "Complete project proposal", "Finish writing the project proposal document and send it to stakeholders", dom.StatusPending},
	{0, "Review pull requests", "Review and merge outstanding pull requests", dom.StatusInProgress},
	{0, "Prepare presentation", "Create slides for the quarterly review meeting", dom.StatusCompleted},
	{1, "Team sync meeting", "Attend weekly team sync meeting at 10 AM", dom.StatusPending},
	{1, "Update documentation", "Update API documentation with latest changes", dom.StatusInProgress},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PG.DSN)
	if err != nil {
		log.Fatalf("pg connect: %v", err)
	}
	defer pool.Close()

	log.Println("clearing existing data...")
	if _, err := pool.Exec(ctx, `DELETE FROM tasks`); err != nil {
		log.Fatalf("clear tasks: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM users`); err != nil {
		log.Fatalf("clear users: %v", err)
	}

	const password = "password123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := repo.NewPGUserRepo(pool)
	tasks := repo.NewPGTaskRepo(pool)

	ids := make([]int64, len(demoUsers))
	for i, du := range demoUsers {
		u, err := users.Create(ctx, du.name, du.email, string(hash))
		if err != nil {
			log.Fatalf("create user %s: %v", du.email, err)
		}
		ids[i] = u.ID
	}
	log.Printf("created %d demo users", len(ids))

	for _, dt := range demoTasks {
		if _, err := tasks.Create(ctx, dom.Task{
			UserID:      ids[dt.owner],
			Title:       dt.title,
			Description: dt.description,
			Status:      dt.status,
		}); err != nil {
			log.Fatalf("create task %q: %v", dt.title, err)
		}
	}
	log.Printf("created %d demo tasks", len(demoTasks))

	log.Println("seed data created. demo credentials: admin@example.com / password123")
}
