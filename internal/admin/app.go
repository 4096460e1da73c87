// Package admin implements the operator tool used to manage patient
// accounts from a terminal.
package admin

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/carescan/internal/common"
	"github.com/dmitrijs2005/carescan/internal/server/models"
	"github.com/dmitrijs2005/carescan/internal/server/services"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// Registrar creates accounts. *services.Authenticator satisfies it.
type Registrar interface {
	Register(ctx context.Context, in services.RegisterInput) (models.Principal, error)
}

type App struct {
	registrar Registrar
	reader    *bufio.Reader
	out       io.Writer
	fd        int
}

// NewApp reads answers from in and passwords from the terminal fd.
func NewApp(r Registrar, in io.Reader, out io.Writer, fd int) *App {
	return &App{registrar: r, reader: bufio.NewReader(in), out: out, fd: fd}
}

// Run dispatches a subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}
	switch args[0] {
	case "create-user":
		return a.CreateUser(ctx)
	default:
		_ = a.usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *App) usage() error {
	_, err := fmt.Fprintln(a.out, "usage: admin create-user")
	return err
}

// CreateUser prompts for the account fields and registers the account.
func (a *App) CreateUser(ctx context.Context) error {
	userName, err := getText(a.reader, "Enter user name", a.out)
	if err != nil {
		return err
	}
	email, err := getText(a.reader, "Enter email (optional)", a.out)
	if err != nil {
		return err
	}
	phone, err := getText(a.reader, "Enter phone number (optional)", a.out)
	if err != nil {
		return err
	}
	ageText, err := getText(a.reader, "Enter age (optional)", a.out)
	if err != nil {
		return err
	}


	var age *int
	if ageText != "" {
		v, err := strconv.Atoi(ageText)
		if err != nil {
			return fmt.Errorf("%w: age must be a number", common.ErrValidation)
		}
		age = &v
	}

	history, err := getText(a.reader, "Enter medical conditions (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.fd, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.fd, "Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}

	p, err := a.registrar.Register(ctx, services.RegisterInput{
		UserName:       userName,
		Email:          email,
		PhoneNumber:    phone,
		Password:       string(password),
		Age:            age,
		MedicalHistory: history,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.out, "Created user %s (id=%s)\n", p.Name, p.ID)
	return err
}
