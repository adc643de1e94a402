// Package cli implements the interactive TaskKeeper client: a small REPL over
// the HTTP API with register/login, profile and task commands. The session
// token lives in memory for the lifetime of the process.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ledovskis/taskkeeper/internal/client/api"
	"github.com/ledovskis/taskkeeper/internal/client/config"
	"github.com/ledovskis/taskkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	config   *config.Config
	client   *api.Client
	userName string
	reader   *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := api.NewClient(c.ServerEndpointAddr, c.RequestTimeout)
	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.client.Token() != ""
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.userName
	}
	return "not logged in"
}

// Register prompts for name, email and password and creates an account. On
// success the issued token is kept and the user is logged in immediately.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Register(ctx, name, email, string(password)); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	a.userName = name
	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.client.Login(ctx, email, string(password)); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	profile, err := a.client.Profile(ctx)
	if err == nil {
		a.userName = profile.Name
	}

	fmt.Println("Success!")
	return nil
}

// Whoami prints the authenticated user's public profile.
func (a *App) Whoami(ctx context.Context) error {
	profile, err := a.client.Profile(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("%s <%s> (id %s)\n", profile.Name, profile.Email, profile.ID)
	return nil
}

// Add prompts for a description and creates a task.
func (a *App) Add(ctx context.Context) error {
	description, err := getSimpleText(a.reader, "Enter task description", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.client.CreateTask(ctx, description)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("Added task %s\n", task.ID)
	return nil
}

// List prints the user's tasks. Filter and order are prompted for and may be
// left empty to use the server defaults (ALL, CREATED_AT).
func (a *App) List(ctx context.Context) error {
	filter, err := getSimpleText(a.reader, "Filter (ALL/INCOMPLETE/COMPLETE, empty for ALL)", os.Stdout)
	if err != nil {
		return err
	}
	orderBy, err := getSimpleText(a.reader, "Order by (DESCRIPTION/CREATED_AT/COMPLETED_AT, empty for CREATED_AT)", os.Stdout)
	if err != nil {
		return err
	}

	tasks, err := a.client.ListTasks(ctx, filter, orderBy)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}
	for _, t := range tasks {
		marker := " "
		if t.State == "COMPLETE" {
			marker = "x"
		}
		fmt.Printf("[%s] %s  %s\n", marker, t.ID, t.Description)
	}
	return nil
}

// Complete prompts for a task id and marks it complete.
func (a *App) Complete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter task id", os.Stdout)
	if err != nil {
		return err
	}

	task, err := a.client.CompleteTask(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("Completed task %s at %s\n", task.ID, task.CompletedAt)
	return nil
}

// Delete prompts for a task id and deletes it.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter task id", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.DeleteTask(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

// Logout invalidates the session on the server and forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	a.userName = ""
	fmt.Println("Logged out.")
	return nil
}

// Run starts the interactive loop and returns when the user exits.
func (a *App) Run() {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}
