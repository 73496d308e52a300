// lisctl is the terminal front end for the laboratory information system:
// it holds the session, shows what the logged-in role may do, and drives the
// entry workflow against the backend.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"lis_client/internal/api"
	"lis_client/internal/config"
	"lis_client/internal/model"
	"lis_client/internal/permission"
	"lis_client/internal/service"
	"lis_client/internal/session"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine for the CLI; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadClientConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: lisctl <command> [flags]

Commands:
  login         -name <user> -password <pw>
  logout
  whoami
  patients      [-generate]
  entries
  create        -patient <id> [-test <name>]
  process       -entry <id>
  verify        -entry <id> -result <Positive|Negative>
  users
  user-create   -name <user> -password <pw> -role <role>
  user-delete   -id <user id>
  user-promote  -id <user id> -role <role>`)
}

type app struct {
	sessions service.SessionManager
	workflow service.Workflow
	listing  service.Listing
	admin    service.UserAdmin
	stdin    *bufio.Reader
}

func newApp(cfg *config.ClientConfig) (*app, error) {
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	store, err := session.NewStore(cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	return &app{
		sessions: service.NewSessionManager(client, store),
		workflow: service.NewWorkflow(client, service.RendererFunc(renderEntries)),
		listing:  service.NewListing(client),
		admin:    service.NewUserAdmin(client),
		stdin:    bufio.NewReader(os.Stdin),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.sessions.Logout()
	case "whoami":
		return a.whoami()
	case "patients":
		return a.patients(ctx, args)
	case "entries":
		return a.entries(ctx)
	case "create":
		return a.create(ctx, args)
	case "process":
		return a.process(ctx, args)
	case "verify":
		return a.verify(ctx, args)
	case "users":
		return a.users(ctx)
	case "user-create":
		return a.userCreate(ctx, args)
	case "user-delete":
		return a.userDelete(ctx, args)
	case "user-promote":
		return a.userPromote(ctx, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireSession restores the persisted session and fails when there is none.
func (a *app) requireSession() (model.Session, error) {
	sess, err := a.sessions.Restore()
	if err != nil {
		return model.Session{}, err
	}
	if sess == nil {
		return model.Session{}, fmt.Errorf("not logged in; run: lisctl login -name <user> -password <pw>")
	}
	return *sess, nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	name := fs.String("name", "", "user name")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	sess, err := a.sessions.Login(ctx, *name, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s)\n", sess.Role, sess.Name)
	return nil
}

func (a *app) whoami() error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	caps := permission.For(sess.Role)
	fmt.Printf("User:  %s (%s)\nRole:  %s\nPanel: %s\n", sess.Name, sess.UserID, sess.Role, panelLabel(caps.Panel))
	return nil
}

func panelLabel(p permission.Panel) string {
	if p == permission.PanelNone {
		return "none"
	}
	return string(p)
}

func (a *app) patients(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("patients", flag.ExitOnError)
	generate := fs.Bool("generate", false, "generate a fresh patient pool first")
	_ = fs.Parse(args)

	var (
		patients []model.Patient
		err      error
	)
	if *generate {
		patients, err = a.listing.GeneratePatients(ctx)
	} else {
		patients, err = a.listing.AvailablePatients(ctx)
	}
	if err != nil {
		return err
	}

	if len(patients) == 0 {
		fmt.Println("No available patients. Run: lisctl patients -generate")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTEST")
	for _, p := range patients {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.TestName)
	}
	return w.Flush()
}

func (a *app) entries(ctx context.Context) error {
	entries, err := a.listing.Entries(ctx)
	if err != nil {
		return err
	}
	renderEntries(entries)
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	patientID := fs.String("patient", "", "patient id")
	testName := fs.String("test", "", "test name (resolved from the patient when omitted)")
	_ = fs.Parse(args)

	sess, err := a.requireSession()
	if err != nil {
		return err
	}

	test := *testName
	if test == "" {
		patient, err := a.listing.LookupPatient(ctx, *patientID)
		if err != nil {
			return err
		}
		if patient == nil {
			return fmt.Errorf("patient %s not found in the current list", *patientID)
		}
		test = patient.TestName
	}

	entry, err := a.workflow.Create(ctx, sess, *patientID, test)
	if err != nil {
		return err
	}
	fmt.Printf("Created entry #%d (%s, %s)\n", entry.ID, entry.PatientID, entry.TestName)
	return nil
}

func (a *app) process(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	entryID := fs.Int("entry", 0, "entry id")
	_ = fs.Parse(args)

	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	entry, err := a.workflow.Process(ctx, sess, *entryID)
	if err != nil {
		return err
	}
	fmt.Printf("Entry #%d processed\n", entry.ID)
	return nil
}

func (a *app) verify(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	entryID := fs.Int("entry", 0, "entry id")
	result := fs.String("result", "", "Positive or Negative")
	_ = fs.Parse(args)

	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	entry, err := a.workflow.Verify(ctx, sess, *entryID, *result)
	if err != nil {
		return err
	}
	fmt.Printf("Entry #%d verified: %s\n", entry.ID, *entry.Result)
	return nil
}

func (a *app) users(ctx context.Context) error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	users, err := a.admin.List(ctx, sess)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Name, u.Role)
	}
	return w.Flush()
}

func (a *app) userCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-create", flag.ExitOnError)
	name := fs.String("name", "", "user name")
	password := fs.String("password", "", "password")
	role := fs.String("role", "", "Admin, Technician or Supervisor")
	_ = fs.Parse(args)

	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	user, err := a.admin.Create(ctx, sess, *name, *password, model.ParseRole(*role))
	if err != nil {
		return err
	}
	fmt.Printf("Created user %s (%s, %s)\n", user.ID, user.Name, user.Role)
	return nil
}

func (a *app) userDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-delete", flag.ExitOnError)
	targetID := fs.String("id", "", "user id to delete")
	_ = fs.Parse(args)

	sess, err := a.requireSession()
	if err != nil {
		return err
	}

	// Deletion is irreversible; require explicit confirmation first.
	fmt.Printf("Delete user %s? [y/N]: ", *targetID)
	answer, _ := a.stdin.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("Aborted")
		return nil
	}

	detail, err := a.admin.Delete(ctx, sess, *targetID)
	if err != nil {
		return err
	}
	fmt.Println(detail)
	return nil
}

func (a *app) userPromote(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("user-promote", flag.ExitOnError)
	targetID := fs.String("id", "", "user id to promote")
	role := fs.String("role", "", "new role")
	_ = fs.Parse(args)

	sess, err := a.requireSession()
	if err != nil {
		return err
	}
	detail, err := a.admin.Promote(ctx, sess, *targetID, model.ParseRole(*role))
	if err != nil {
		return err
	}
	fmt.Println(detail)
	return nil
}

// renderEntries is the view side of the workflow's render-on-change
// contract: it repaints the whole entry table from a fresh listing.
func renderEntries(entries []model.Entry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATIENT\tTEST\tSTATUS\tRESULT")
	for _, e := range entries {
		result := "-"
		if e.Result != nil {
			result = string(*e.Result)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.PatientID, e.TestName, e.Status, result)
	}
	w.Flush()
}
