package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/core/domain"
)

var password string

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and remember the session",
	Long:  `Log in to the storefront. The password is read from --password or, when omitted, from the first line of stdin.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runLogin(ctx, w, cmd.InOrStdin(), args[0], password)
		})(cmd, args)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a shopper account",
	Long:  `Create a shopper account. Registering does not log you in.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runRegister(ctx, w, cmd.InOrStdin(), args[0], password)
		})(cmd, args)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	Run:   run(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who is logged in",
	Args:  cobra.NoArgs,
	Run:   run(runWhoami),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&password, "password", "p", "", "Account password (read from stdin when empty)")
	}
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

// readPassword returns pw, or the first line of in when pw is empty.
func readPassword(in io.Reader, pw string) (string, error) {
	if pw != "" {
		return pw, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("password is required: %w", domain.ErrInvalidInput)
	}
	return line, nil
}

func runLogin(ctx context.Context, w io.Writer, in io.Reader, username, pw string) int {
	pw, err := readPassword(in, pw)
	if err != nil {
		return fail(w, err)
	}

	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	id, err := a.Session.Login(ctx, username, pw)
	if err != nil {
		return fail(w, err)
	}

	if jsonOutput {
		printJSON(w, id)
		return exitOK
	}
	fmt.Fprintf(w, "%s Logged in as %s (%s)\n", okStyle.Render("✓"), id.Username, id.Role)
	return exitOK
}

func runRegister(ctx context.Context, w io.Writer, in io.Reader, username, pw string) int {
	pw, err := readPassword(in, pw)
	if err != nil {
		return fail(w, err)
	}

	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	if err := a.Session.Register(ctx, username, pw); err != nil {
		return fail(w, err)
	}

	if jsonOutput {
		printJSON(w, map[string]string{"username": username, "status": "registered"})
		return exitOK
	}
	fmt.Fprintf(w, "%s Account %s created. Run `storefront login %s` to sign in.\n", okStyle.Render("✓"), username, username)
	return exitOK
}

func runLogout(ctx context.Context, w io.Writer) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	a.Session.Logout(ctx)
	if jsonOutput {
		printJSON(w, map[string]string{"status": "logged_out"})
		return exitOK
	}
	fmt.Fprintln(w, "Logged out.")
	return exitOK
}

func runWhoami(ctx context.Context, w io.Writer) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	id := a.Session.Identity()
	if jsonOutput {
		printJSON(w, map[string]any{"identity": id})
	} else if id == nil {
		fmt.Fprintln(w, mutedStyle.Render("Not logged in."))
	} else {
		fmt.Fprintf(w, "%s (%s)\n", id.Username, id.Role)
	}

	if id == nil {
		return exitFailure
	}
	return exitOK
}
