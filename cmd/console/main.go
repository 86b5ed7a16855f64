// Command console is a terminal admin back-office for the users screen. It
// signs in an admin, gates the view on their role, and drives the generic
// list controller: debounced search, pagination, approve and delete with
// confirmation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/adminview"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/config"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/repository"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/service"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/utils"

	"github.com/benbjohnson/clock"
	"github.com/joho/godotenv"
)

func strOrDash(p *string) string {
	if p == nil || *p == "" {
		return "-"
	}
	return *p
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	email := os.Getenv("CONSOLE_ADMIN_EMAIL")
	password := os.Getenv("CONSOLE_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatalf("CONSOLE_ADMIN_EMAIL and CONSOLE_ADMIN_PASSWORD must be set")
	}

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	jwtUtil := utils.NewJWTUtil(os.Getenv("JWT_SECRET_KEY"), 24)
	userRepo := repository.NewUserRepository(dbPool)
	authService := service.NewAuthService(userRepo, jwtUtil)
	userService := service.NewUserService(userRepo)

	ctx := context.Background()

	// Sign in and populate the session store.
	admin, _, err := authService.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	session := adminview.NewMemoryStore()
	session.Set(&adminview.Identity{ID: admin.ID, Role: admin.Role})

	ctrl := adminview.NewController[model.User, model.UpdateUserRequest](
		service.NewUserBackend(userService), adminview.DefaultPageSize)

	table := adminview.Table[model.User]{
		Columns: []adminview.Column[model.User]{
			{Header: "Name", Render: func(u model.User) string { return u.FullName }},
			{Header: "Email", Render: func(u model.User) string { return u.Email }},
			{Header: "Org", Render: func(u model.User) string { return strOrDash(u.Organization) }},
			{Header: "Role", Render: func(u model.User) string { return u.Role }},
			{Header: "Approved", Render: func(u model.User) string { return strconv.FormatBool(u.Approved) }},
		},
		Actions: []adminview.Action[model.User]{
			{Name: "approve", Enabled: func(u model.User, _ *adminview.Identity) bool { return !u.Approved }},
			{Name: "delete"},
		},
	}

	render := func() {
		st := ctrl.State()
		view := table.Snapshot(st, session.Current(), ctrl.Busy())

		fmt.Printf("\n[%s] total=%d page=%d/%d\n", st.Phase, st.TotalCount, st.CurrentPage, max(1, st.TotalPages()))
		if st.Phase == adminview.PhaseError {
			fmt.Printf("  fetch failed: %s (type 'retry')\n", st.ErrorMessage)
		}
		if st.ActionError != "" {
			fmt.Printf("  action failed: %s\n", st.ActionError)
		}
		fmt.Println("  " + strings.Join(view.Headers, " | "))
		for i, row := range view.Rows {
			var enabled []string
			for _, a := range row.Actions {
				if a.Enabled {
					enabled = append(enabled, a.Name)
				}
			}
			fmt.Printf("  %2d. %s  [%s]\n", i+1, strings.Join(row.Cells, " | "), strings.Join(enabled, ","))
		}
		if view.Empty {
			fmt.Println("  (no users match)")
		}
		if p := view.Pagination; p != nil {
			fmt.Printf("  pages %v (prev=%v next=%v)\n", p.Pages, p.PrevEnabled, p.NextEnabled)
		}
		if m := ctrl.Mutation(); m.Kind == adminview.MutationConfirmingDelete {
			fmt.Printf("  delete %s? (confirm/cancel)\n", m.TargetID)
		}
	}
	ctrl.SetOnChange(render)

	gate := adminview.Gate{AllowedRoles: []string{model.RoleAdmin}, Fallback: "/login"}
	if d := adminview.MountGuarded(ctx, gate, session, ctrl); !d.Render {
		log.Fatalf("Access denied, redirecting to %s", d.RedirectTo)
	}

	queries := adminview.NewQueryController(clock.New(), func(q string) {
		ctrl.CommitQuery(ctx, q)
	})
	defer queries.Close()

	fmt.Println("commands: search <text> | page <n> | approve <row> | delete <row> | confirm | cancel | retry | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = strings.Join(fields[1:], " ")
		}

		switch fields[0] {
		case "search":
			queries.SetRaw(arg)
		case "page":
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Println("usage: page <n>")
				continue
			}
			ctrl.SetPage(ctx, n)
		case "approve":
			if u, ok := rowAction(ctrl, table, session, arg, "approve"); ok {
				approved := true
				ctrl.BeginEdit(u.ID, model.UpdateUserRequest{Approved: &approved})
				ctrl.SaveEdit(ctx)
			}
		case "delete":
			if u, ok := rowAction(ctrl, table, session, arg, "delete"); ok {
				ctrl.BeginDelete(u.ID)
			}
		case "confirm":
			ctrl.ConfirmDelete(ctx)
		case "cancel":
			ctrl.CancelMutation()
		case "retry":
			ctrl.Retry(ctx)
		case "quit":
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

// rowAction resolves a 1-based row number from the current page and checks
// the named action is enabled on it (self-action guard included).
func rowAction(ctrl *adminview.Controller[model.User, model.UpdateUserRequest], table adminview.Table[model.User],
	session adminview.Store, arg, action string) (model.User, bool) {
	n, err := strconv.Atoi(arg)
	st := ctrl.State()
	if err != nil || n < 1 || n > len(st.Items) {
		fmt.Println("no such row")
		return model.User{}, false
	}
	view := table.Snapshot(st, session.Current(), ctrl.Busy())
	for _, a := range view.Rows[n-1].Actions {
		if a.Name == action {
			if !a.Enabled {
				fmt.Printf("'%s' is disabled for this row\n", action)
				return model.User{}, false
			}
			return st.Items[n-1], true
		}
	}
	return model.User{}, false
}
