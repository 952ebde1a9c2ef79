package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aanand-mishra/academico/internal/storage"
	"github.com/aanand-mishra/academico/internal/types"
)

// cli binds the subcommands to their collaborators. Tests build one
// around a store in a temporary directory and a buffer as out.
type cli struct {
	store        storage.Storage
	out          io.Writer
	openReporter func() (storage.Reporter, error)
}

const usage = `usage: academico [--config file] <command> [flags]

commands:
  login       -email E -password P    check credentials, print the role menu
  list                                list every user
  show        -id N                   print one user
  add         [user flags]            add a user (id is assigned)
  update      -id N [user flags]      replace every field of a user
  delete      -id N                   delete a user
  activate    -id N                   set status to Ativo
  deactivate  -id N                   set status to Inativo
  backup                              snapshot the store now
  report                              per-class summary of students
`

var errUsage = errors.New("invalid usage")

func (c *cli) run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "init":
		// Seeding already ran at startup.
		fmt.Fprintln(c.out, "store ready")
		return nil
	case "login":
		return c.login(rest)
	case "list":
		return c.list()
	case "show":
		return c.show(rest)
	case "add":
		return c.add(rest)
	case "update":
		return c.update(rest)
	case "delete":
		return c.delete(rest)
	case "activate":
		return c.setStatus(rest, types.StatusActive)
	case "deactivate":
		return c.setStatus(rest, types.StatusInactive)
	case "backup":
		return c.backup()
	case "report":
		return c.report()
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}

// menuFor names the menu a role lands on; unknown roles get the
// student menu.
func menuFor(role string) string {
	for _, r := range []string{types.RoleAdmin, types.RoleCoordinator, types.RoleProfessor} {
		if strings.EqualFold(role, r) {
			return r
		}
	}
	return types.RoleStudent
}

func (c *cli) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := c.store.FindByCredentials(*email, *password)
	if errors.Is(err, storage.ErrNotFound) {
		return errors.New("email ou senha incorretos")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Bem-vindo(a), %s!\nmenu: %s\n", u.Name, menuFor(u.Role))
	return nil
}

func (c *cli) list() error {
	users, err := storage.Collect(c.store.ListAll())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "ID\t| Nome\t| Email\t| Nivel\t| Turma\t| Atv.")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t| %s\t| %s\t| %s\t| %s\t| %s\n",
			u.ID, u.Name, u.Email, u.Role, u.Class, u.Status)
	}
	return w.Flush()
}

func (c *cli) show(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	id := fs.Int("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := c.store.FindByID(*id)
	if err != nil {
		return err
	}
	printUser(c.out, u)
	return nil
}

// userFlags registers the per-field flags shared by add and update.
// media < 0 means "compute it from np1, np2 and pim".
func userFlags(fs *flag.FlagSet) func() types.User {
	var u types.User
	fs.StringVar(&u.Name, "nome", "", "full name")
	fs.StringVar(&u.Email, "email", "", "email")
	fs.StringVar(&u.Password, "senha", "", "password")
	fs.StringVar(&u.Role, "nivel", "", "Administrador, Coordenador, Professor or Aluno")
	fs.StringVar(&u.Course, "curso", "", "course")
	fs.StringVar(&u.Class, "turma", "", "class")
	fs.IntVar(&u.Age, "idade", 0, "age")
	fs.Float64Var(&u.NP1, "np1", 0, "first exam")
	fs.Float64Var(&u.NP2, "np2", 0, "second exam")
	fs.Float64Var(&u.PIM, "pim", 0, "PIM project")
	fs.Float64Var(&u.Average, "media", -1, "final average (default: weighted from the grades)")
	fs.StringVar(&u.Status, "atividade", "", "Ativo or Inativo")

	return func() types.User {
		if u.Average < 0 {
			u.Average = types.WeightedAverage(u.NP1, u.NP2, u.PIM)
		}
		return u
	}
}

func (c *cli) add(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	user := userFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := c.store.Add(user())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Usuario adicionado com ID %d\n", u.ID)
	return nil
}

func (c *cli) update(args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	id := fs.Int("id", 0, "user id")
	user := userFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := c.store.UpdateByID(*id, user()); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Usuario ID %d alterado com sucesso.\n", *id)
	return nil
}

func (c *cli) delete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.Int("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.store.DeleteByID(*id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Usuario ID %d excluido com sucesso.\n", *id)
	return nil
}

func (c *cli) setStatus(args []string, status string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	id := fs.Int("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	u, err := c.store.SetStatus(*id, status)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Usuario ID %d definido como %s.\n", u.ID, u.Status)
	return nil
}

func (c *cli) backup() error {
	path, err := c.store.Snapshot()
	if err != nil {
		return err
	}
	if path == "" {
		return storage.ErrNoStore
	}
	fmt.Fprintf(c.out, "Backup criado com sucesso: %s\n", path)
	return nil
}

// report rebuilds the SQLite mirror from the store and prints one line
// per class.
func (c *cli) report() error {
	users, err := storage.Collect(c.store.ListAll())
	if err != nil {
		return err
	}

	rep, err := c.openReporter()
	if err != nil {
		return err
	}
	defer rep.Close()

	if err := rep.Sync(users); err != nil {
		return err
	}
	summaries, err := rep.ClassSummaries()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 1, ' ', 0)
	fmt.Fprintln(w, "Turma\t| Curso\t| Total alunos\t| Media geral")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t| %s\t| %d\t| %.2f\n", s.Class, s.Course, s.Students, s.Average)
	}
	return w.Flush()
}

func printUser(w io.Writer, u types.User) {
	fmt.Fprintf(w, "ID: %d\nNome: %s\nEmail: %s\nIdade: %d\nNivel: %s\nCurso: %s\nTurma: %s\nAtividade: %s\nNotas: NP1=%.2f NP2=%.2f PIM=%.2f Media=%.2f\n",
		u.ID, u.Name, u.Email, u.Age, u.Role, u.Course, u.Class, u.Status,
		u.NP1, u.NP2, u.PIM, u.Average)
}
