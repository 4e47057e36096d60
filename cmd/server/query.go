package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/bewlybewly/bewly/backend/internal/client"
	"github.com/bewlybewly/bewly/backend/internal/relay"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const defaultRelayURL = "http://127.0.0.1:8000"

var queryCmd = &cobra.Command{
	Use:   "query <message-json>",
	Short: "Send one message to a running relay",
	Example: `  server query '{"contentScriptQuery":"getPeopleInfo","uids":"1,2"}'
  server query '{"contentScriptQuery":"getUserInfo"}' --cookie "SESSDATA=..."`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List a running relay's domains",
	Args:  cobra.NoArgs,
	RunE:  runDomains,
}

func init() {
	for _, c := range []*cobra.Command{queryCmd, domainsCmd} {
		c.Flags().String("relay", defaultRelayURL, "Relay base URL")
		c.Flags().Duration("timeout", 35*time.Second, "Request timeout")
	}
	queryCmd.Flags().String("cookie", "", "Site cookies to forward")
	queryCmd.Flags().Bool("connect", false, "Send a connection event first")
	domainsCmd.Flags().StringP("output", "o", "", "Output format (json)")
}

func relayClient(cmd *cobra.Command) *client.Client {
	base, _ := cmd.Flags().GetString("relay")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	return client.New(base, timeout)
}

func runQuery(cmd *cobra.Command, args []string) error {
	msg, err := relay.DecodeMessage([]byte(args[0]))
	if err != nil {
		return err
	}
	cookie, _ := cmd.Flags().GetString("cookie")
	c := relayClient(cmd)

	if connect, _ := cmd.Flags().GetBool("connect"); connect {
		if _, err := c.Connect(cmd.Context()); err != nil {
			return err
		}
	}

	reply, err := c.Message(cmd.Context(), msg, cookie)
	if err != nil {
		return err
	}
	if !reply.Handled {
		pterm.Warning.Printf("No listener handled %q\n", msg.Query)
		return nil
	}
	if string(reply.Data) == "null" {
		pterm.Warning.Printf("%q failed upstream; the surface sees no value\n", msg.Query)
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, reply.Data, "", "  "); err != nil {
		_, err = os.Stdout.Write(reply.Data)
		return err
	}
	fmt.Println(pretty.String())
	return nil
}

func runDomains(cmd *cobra.Command, args []string) error {
	stats, err := relayClient(cmd).Domains(cmd.Context())
	if err != nil {
		pterm.Error.Println("Could not reach the relay. Is `server serve` running?")
		return err
	}

	if output, _ := cmd.Flags().GetString("output"); output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	rows := pterm.TableData{{"#", "Domain"}}
	rows = append(rows, lo.Map(stats.Domains, func(d string, i int) []string {
		return []string{fmt.Sprint(i + 1), d}
	})...)
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()

	pterm.Println()
	pterm.Printf("Listeners on channel: %d\n", stats.Listeners)
	pterm.Printf("Connection events:    %d\n", stats.Connections)
	return nil
}
