package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/core/service"
)

var checkoutInput service.CheckoutInput

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for everything in the cart",
	Long: `Place an order for everything in the cart. Stock is checked first; the cart
is emptied once the order has been accepted.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, w io.Writer) int {
			return runCheckout(ctx, w, checkoutInput)
		})(cmd, args)
	},
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&checkoutInput.ShippingAddress.ReceiverName, "receiver", "", "Name of the person receiving the parcel")
	f.StringVar(&checkoutInput.ShippingAddress.Phone, "phone", "", "Contact phone number")
	f.StringVar(&checkoutInput.ShippingAddress.FullAddress, "address", "", "Delivery address")
	f.StringVar(&checkoutInput.PaymentMethod, "payment", "", "Payment method: cod or card (default cod)")
	f.StringVar(&checkoutInput.Note, "note", "", "Note for the seller")
	for _, name := range []string{"receiver", "phone", "address"} {
		_ = checkoutCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(checkoutCmd)
}

func runCheckout(ctx context.Context, w io.Writer, in service.CheckoutInput) int {
	a, code := openApp(ctx, w)
	if a == nil {
		return code
	}
	defer a.Close()

	order, err := a.Checkout.Checkout(ctx, in)
	if err != nil {
		return fail(w, err)
	}
	if jsonOutput {
		printJSON(w, map[string]any{"order": order})
		return exitOK
	}
	fmt.Fprintf(w, "%s Order placed.\n\n%s\n", okStyle.Render("✓"), formatOrderHuman(order))
	return exitOK
}
