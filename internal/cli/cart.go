package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/app"
	"github.com/marketplace/storefront/internal/core/domain"
)

var addQuantity int

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change your cart",
	Args:  cobra.NoArgs,
	Run:   run(runCartShow),
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	Run:   run(runCartShow),
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-code>",
	Short: "Add a product to the cart",
	Long:  `Add a product to the cart. Adding a product that is already in the cart increases its quantity.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runCartAdd(ctx, w, args[0], addQuantity)
		})(cmd, args)
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-code> <quantity>",
	Short: "Set the quantity of a cart line (0 removes it)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fail(w, fmt.Errorf("quantity %q is not a number: %w", args[1], domain.ErrInvalidInput))
			}
			return runCartUpdate(ctx, w, args[0], qty)
		})(cmd, args)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-code>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runCartRemove(ctx, w, args[0])
		})(cmd, args)
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	Run:   run(runCartClear),
}

func init() {
	cartAddCmd.Flags().IntVarP(&addQuantity, "quantity", "q", 1, "Quantity to add")
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func runCartShow(ctx context.Context, w io.Writer) int {
	return withCart(ctx, w, func(a *app.App) error {
		return a.Cart.Refresh(ctx)
	})
}

// runCartAdd looks the product up first so the line carries its current
// name and price.
func runCartAdd(ctx context.Context, w io.Writer, code string, qty int) int {
	return withCart(ctx, w, func(a *app.App) error {
		p, err := a.Catalog.Get(ctx, code)
		if err != nil {
			return err
		}
		return a.Cart.AddItem(ctx, p.ToLineItem(qty))
	})
}

func runCartUpdate(ctx context.Context, w io.Writer, code string, qty int) int {
	return withCart(ctx, w, func(a *app.App) error {
		return a.Cart.UpdateItem(ctx, code, qty)
	})
}

func runCartRemove(ctx context.Context, w io.Writer, code string) int {
	return withCart(ctx, w, func(a *app.App) error {
		return a.Cart.RemoveItem(ctx, code)
	})
}

func runCartClear(ctx context.Context, w io.Writer) int {
	return withCart(ctx, w, func(a *app.App) error {
		return a.Cart.Clear(ctx)
	})
}

// withCart runs op for a logged-in user and prints the resulting cart.
func withCart(ctx context.Context, w io.Writer, op func(a *app.App) error) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	if a.Session.Identity() == nil {
		return fail(w, domain.ErrNotAuthenticated)
	}
	if err := op(a); err != nil {
		return fail(w, err)
	}

	cart := a.Cart.Cart()
	if jsonOutput {
		printJSON(w, map[string]any{"cart": cart})
		return exitOK
	}
	fmt.Fprintln(w, formatCartHuman(cart))
	return exitOK
}
