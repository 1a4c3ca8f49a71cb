package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"foodrescue-platform/internal/app"
	"foodrescue-platform/internal/client"
	"foodrescue-platform/internal/config"
	"foodrescue-platform/internal/i18n"
	"foodrescue-platform/internal/model"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorRed    = "\033[31m"
)

// terminalUI implements app.UI and client.Confirmer over stdin/stdout.
type terminalUI struct {
	in *bufio.Scanner
}

func (t *terminalUI) Alert(title, message string) {
	fmt.Printf("%s[%s]%s %s\n", colorYellow, title, colorReset, message)
}

func (t *terminalUI) Confirm(title, message string) bool {
	fmt.Printf("%s[%s]%s %s [y/N] ", colorCyan, title, colorReset, message)
	if !t.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(t.in.Text()))
	return answer == "y" || answer == "yes"
}

func (t *terminalUI) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !t.in.Scan() {
		return ""
	}
	return strings.TrimSpace(t.in.Text())
}

func main() {
	log.SetFlags(0)

	cfg := config.MustLoad()
	tr := i18n.New(cfg.Client.Language)
	ui := &terminalUI{in: bufio.NewScanner(os.Stdin)}
	api := client.New(cfg.Client.APIURL, cfg.Client.Timeout)
	auth := client.NewAuthenticator(api, cfg.Providers, ui, nil)

	fmt.Printf("%s== %s ==%s\n", colorGreen, tr.T("app.title"), colorReset)

	outcome := loginLoop(ui, tr, api, auth)
	if outcome == nil {
		return
	}

	params := app.Params{Session: outcome.Session, Role: outcome.Role}
	stack, ctx := app.NewStack(string(outcome.Route), params)

	if outcome.Route == client.RouteMerchantSetup {
		updated := runMerchantSetup(ctx, ui, tr, api, params)
		if updated != nil {
			params.Session = updated
			params.Role = client.RoleMerchant
		}
		ctx = stack.Replace(string(client.RouteHome), params)
	}

	homeLoop(ctx, stack, ui, tr, api, params)
}

func loginLoop(ui *terminalUI, tr *i18n.Translator, api *client.Client, auth *client.Authenticator) *client.LoginOutcome {
	for {
		fmt.Printf("\n%s\n", tr.T("login.title"))
		fmt.Printf("  1) %s\n", tr.T("login.google"))
		fmt.Printf("  2) %s\n", tr.T("login.facebook"))
		fmt.Printf("  3) %s\n", tr.T("login.phone"))
		fmt.Printf("  4) %s\n", tr.T("login.wallet"))
		fmt.Println("  q) quit")

		switch ui.prompt(">") {
		case "1", "2":
			provider := "google"
			if ui.in.Text() == "2" {
				provider = "facebook"
			}
			outcome, err := auth.LoginWith(context.Background(), provider)
			if err == client.ErrLoginCancelled {
				continue
			}
			if err != nil {
				ui.Alert(tr.T("login.failed"), client.UserMessage(err))
				continue
			}
			return outcome
		case "3":
			if outcome := phoneLogin(ui, tr, api); outcome != nil {
				return outcome
			}
		case "4":
			address := ui.prompt("wallet address")
			var result *client.LoginOutcome
			watcher := client.NewWalletWatcher(auth,
				func(o *client.LoginOutcome) { result = o },
				func(err error) { ui.Alert(tr.T("login.failed"), client.UserMessage(err)) })
			watcher.Observe(context.Background(), client.WalletEvent{Address: address, Connected: address != ""})
			if result != nil {
				return result
			}
		case "q":
			return nil
		}
	}
}

func phoneLogin(ui *terminalUI, tr *i18n.Translator, api *client.Client) *client.LoginOutcome {
	flow := client.NewRegisterFlow(api)

	phone := ui.prompt(tr.T("register.enter_phone"))
	if err := flow.SendCode(context.Background(), phone); err != nil {
		ui.Alert(tr.T("register.title"), client.UserMessage(err))
		return nil
	}
	if code := flow.DemoCode(); code != "" {
		fmt.Printf("%sdemo code: %s%s\n", colorCyan, code, colorReset)
	}

	for {
		fmt.Printf("(%ds until resend) ", flow.Countdown())
		code := ui.prompt(tr.T("register.enter_code"))
		switch code {
		case "resend":
			if err := flow.Resend(context.Background()); err != nil {
				ui.Alert(tr.T("register.resend"), client.UserMessage(err))
			}
		case "back":
			flow.ChangePhone()
			return nil
		default:
			outcome, err := flow.Verify(context.Background(), code)
			if err != nil {
				ui.Alert(tr.T("register.verify"), client.UserMessage(err))
				continue
			}
			return outcome
		}
	}
}

func runMerchantSetup(ctx context.Context, ui *terminalUI, tr *i18n.Translator, api *client.Client, params app.Params) *model.User {
	fmt.Printf("\n%s\n", tr.T("setup.title"))
	screen := app.NewMerchantSetupScreen(api, ui, params)

	form := client.MerchantSetupForm{
		ShopName: ui.prompt("shop name"),
		Address:  ui.prompt("address"),
		Phone:    ui.prompt("phone"),
		Category: ui.prompt("category"),
	}
	updated, err := screen.Submit(ctx, form)
	if err != nil {
		return nil
	}
	return updated
}

func homeLoop(ctx context.Context, stack *app.Stack, ui *terminalUI, tr *i18n.Translator, api *client.Client, params app.Params) {
	home := app.NewHomeScreen(api, ui, params)
	if err := home.Enter(ctx); err == nil {
		printProducts(home, tr)
	}

	for {
		fmt.Println("\ncommands: list, buy <n>, notifications, search <q>, favorites, merchant <id>, quit")
		input := ui.prompt(">")
		cmd, arg, _ := strings.Cut(input, " ")

		switch cmd {
		case "list":
			if err := home.Enter(ctx); err == nil {
				printProducts(home, tr)
			}
		case "buy":
			idx, err := strconv.Atoi(arg)
			if err != nil || idx < 1 || idx > len(home.Products()) {
				ui.Alert("Error", "unknown listing")
				continue
			}
			if err := home.Purchase(ctx, home.Products()[idx-1].ID); err == nil {
				fmt.Printf("%srescued!%s\n", colorGreen, colorReset)
				printProducts(home, tr)
			}
		case "notifications":
			screenCtx := stack.Navigate("Notifications", params)
			screen := app.NewNotificationsScreen(api, ui, params)
			if err := screen.Enter(screenCtx); err == nil {
				fmt.Printf("%s (%d unread)\n", tr.T("notifications.title"), screen.UnreadCount())
				for i, n := range screen.Notifications() {
					marker := "*"
					if n.IsRead {
						marker = " "
					}
					fmt.Printf("  %s %d) %s - %s\n", marker, i+1, n.Title, n.Body)
				}
				if n := ui.prompt("read #"); n != "" {
					if idx, err := strconv.Atoi(n); err == nil {
						screen.Press(screenCtx, idx-1)
					}
				}
			}
			if c, ok := stack.Back(); ok {
				ctx = c
			}
		case "search":
			screenCtx := stack.Navigate("Search", params)
			screen := app.NewSearchScreen(api, ui)
			if err := screen.Query(screenCtx, arg); err == nil {
				for _, m := range screen.Results() {
					fmt.Printf("  %s (%s) %s\n", m.ShopName, m.UserID, m.Address)
				}
			}
			if c, ok := stack.Back(); ok {
				ctx = c
			}
		case "favorites":
			screenCtx := stack.Navigate("Favorites", params)
			screen := app.NewFavoritesScreen(api, ui, params)
			if err := screen.Enter(screenCtx); err == nil {
				if len(screen.Favorites()) == 0 {
					fmt.Println(tr.T("favorites.empty"))
				}
				for _, f := range screen.Favorites() {
					fmt.Printf("  %s (%s)\n", f.ShopName, f.MerchantID)
				}
			}
			if c, ok := stack.Back(); ok {
				ctx = c
			}
		case "merchant":
			detailParams := params
			detailParams.MerchantID = arg
			screenCtx := stack.Navigate("MerchantDetail", detailParams)
			screen := app.NewMerchantDetailScreen(api, ui, detailParams)
			if err := screen.Enter(screenCtx); err == nil && screen.Detail() != nil {
				d := screen.Detail()
				fmt.Printf("  %s - %.1f stars (%d reviews)\n", d.Merchant.ShopName, d.AverageRating, d.TotalReviews)
				for _, r := range screen.Reviews() {
					fmt.Printf("    %d/5 %s\n", r.Rating, r.Comment)
				}
			}
			if c, ok := stack.Back(); ok {
				ctx = c
			}
		case "quit", "q":
			fmt.Println("bye")
			return
		}
	}
}

func printProducts(home *app.HomeScreen, tr *i18n.Translator) {
	products := home.Products()
	if len(products) == 0 {
		fmt.Println(tr.T("home.empty"))
		return
	}
	fmt.Println(tr.T("home.title"))
	for i, p := range products {
		status := colorGreen
		if p.Status != model.ProductActive {
			status = colorRed
		}
		fmt.Printf("  %d) %s  $%.2f (was $%.2f)  %s%s%s\n",
			i+1, p.Name, p.CurrentPrice, p.OriginalPrice, status, p.Status, colorReset)
	}
}
