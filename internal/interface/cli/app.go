// Package cli implements the interactive terminal interface: the login
// portal and the per-role menus. Every data mutation goes through the store;
// the CLI owns only prompting, rendering, and session wiring.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/school-hub/school-admin-hub/internal/domain/shared"
	"github.com/school-hub/school-admin-hub/internal/persistence"
	"github.com/school-hub/school-admin-hub/internal/store"
	"github.com/school-hub/school-admin-hub/pkg/logger"
)

// errQuit signals that the user asked to leave the portal.
var errQuit = errors.New("quit")

// Options configures the App.
type Options struct {
	Store   *store.Store
	Gateway *persistence.Gateway
	Log     *logger.Logger
	In      io.Reader
	Out     io.Writer

	// ReadPassword reads a secret without echo. Nil falls back to a plain
	// line read, which tests and piped input rely on.
	ReadPassword func(prompt string) (string, error)
}

// App is the interactive session driver.
type App struct {
	store   *store.Store
	gateway *persistence.Gateway
	log     *logger.Logger
	in      *bufio.Reader
	out     io.Writer

	readPassword func(prompt string) (string, error)
}

// New builds an App from options.
func New(opts Options) *App {
	a := &App{
		store:        opts.Store,
		gateway:      opts.Gateway,
		log:          opts.Log,
		in:           bufio.NewReader(opts.In),
		out:          opts.Out,
		readPassword: opts.ReadPassword,
	}
	if a.log == nil {
		a.log = logger.Default()
	}
	if a.readPassword == nil {
		a.readPassword = func(prompt string) (string, error) {
			fmt.Fprint(a.out, prompt)
			return a.readLine()
		}
	}
	return a
}

// Run drives the login portal until the user quits or the context ends.
// Unsaved changes are flushed on the way out.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "═══ School Admin Hub ═══")
	for {
		select {
		case <-ctx.Done():
			return a.saveIfDirty()
		default:
		}

		if err := a.loginPortal(); err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
				return a.saveIfDirty()
			}
			fmt.Fprintf(a.out, "Login failed: %v\n", err)
		}
	}
}

// loginPortal asks who is logging in and dispatches into the role session.
func (a *App) loginPortal() error {
	fmt.Fprintln(a.out, "\n1. Admin login")
	fmt.Fprintln(a.out, "2. Teacher login")
	fmt.Fprintln(a.out, "3. Student login")
	fmt.Fprintln(a.out, "4. Exit")

	choice, err := a.prompt("Choice: ")
	if err != nil {
		return err
	}
	switch choice {
	case "1":
		return a.adminLogin()
	case "2":
		return a.teacherLogin()
	case "3":
		return a.studentLogin()
	case "4", "q", "quit", "exit":
		return errQuit
	default:
		fmt.Fprintln(a.out, "Unknown choice.")
		return nil
	}
}

func (a *App) adminLogin() error {
	username, err := a.prompt("Username: ")
	if err != nil {
		return err
	}
	secret, err := a.readPassword("Password: ")
	if err != nil {
		return err
	}
	adm, err := a.store.FindAdmin(username)
	if err != nil || !adm.Authenticate(username, secret) {
		return shared.NewDomainError("cli", "AdminLogin", shared.ErrInvalidInput, "invalid credentials")
	}

	log := a.sessionLogger().With(logger.AdminUsername(username), logger.String("role", string(adm.Role)))
	log.Info("admin logged in")
	a.runAdminMenu(adm, log)
	log.Info("admin logged out")
	return nil
}

func (a *App) teacherLogin() error {
	id, err := a.prompt("Teacher ID: ")
	if err != nil {
		return err
	}
	secret, err := a.readPassword("Password: ")
	if err != nil {
		return err
	}
	t, err := a.store.FindTeacher(strings.ToUpper(id))
	if err != nil || !shared.VerifyPassword(t.PasswordHash, secret) {
		return shared.NewDomainError("cli", "TeacherLogin", shared.ErrInvalidInput, "invalid credentials")
	}

	log := a.sessionLogger().With(logger.TeacherID(t.ID))
	log.Info("teacher logged in")
	a.runTeacherMenu(t, log)
	log.Info("teacher logged out")
	return nil
}

func (a *App) studentLogin() error {
	id, err := a.prompt("Student ID: ")
	if err != nil {
		return err
	}
	secret, err := a.readPassword("Password: ")
	if err != nil {
		return err
	}
	stu, err := a.store.FindStudent(strings.ToUpper(id))
	if err != nil || !shared.VerifyPassword(stu.PasswordHash, secret) {
		return shared.NewDomainError("cli", "StudentLogin", shared.ErrInvalidInput, "invalid credentials")
	}

	log := a.sessionLogger().With(logger.StudentID(stu.ID))
	log.Info("student logged in")
	a.runStudentMenu(stu, log)
	log.Info("student logged out")
	return nil
}

func (a *App) sessionLogger() *logger.Logger {
	return a.log.WithSessionID(uuid.NewString())
}

// saveIfDirty flushes unsaved changes. Called on every exit path.
func (a *App) saveIfDirty() error {
	if !a.store.Dirty() || a.gateway == nil {
		return nil
	}
	if err := a.gateway.Save(a.store); err != nil {
		a.log.Error("save on exit failed", logger.Err(err))
		return err
	}
	return nil
}
