package main

import (
	"fmt"

	"github.com/bewlybewly/bewly/backend/internal/bootstrap"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page <url>",
	Short: "Print the bootstrap decision for a page URL",
	Example: `  server page https://www.bilibili.com/
  server page https://www.bilibili.com/ --cookie 2`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	pageCmd.Flags().String("cookie", "", "Value of the "+bootstrap.CookieName+" cookie")
	pageCmd.Flags().String("site", "", "Site host (overrides BOOTSTRAP_HOST)")
}

func runPage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	host, _ := cmd.Flags().GetString("site")
	host = lo.Ternary(host != "", host, cfg.Bootstrap.Host)
	cookie, _ := cmd.Flags().GetString("cookie")

	b := bootstrap.New(host, cfg.Bootstrap.AssetBase)
	d := b.Decide(args[0], cookie)

	rows := pterm.TableData{
		{"Property", "Value"},
		{"URL", args[0]},
		{"Homepage", fmt.Sprint(b.Matcher().IsHomePage(args[0]))},
		{"Action", d.Action.String()},
	}
	if w := d.Cookie; w != nil {
		rows = append(rows, []string{"Set cookie", fmt.Sprintf("%s=%s (%d days)", w.Name, w.Value, w.Days)})
	}
	if d.Action == bootstrap.ActionMount {
		rows = append(rows, []string{"Stylesheet", b.StylesheetURL()})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	return nil
}
