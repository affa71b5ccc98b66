package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

type cartJSON struct {
	Cart struct {
		Items []struct {
			ProductID string  `json:"product_id"`
			Quantity  int     `json:"quantity"`
			Price     float64 `json:"price"`
		} `json:"items"`
		TotalItems int     `json:"total_items"`
		TotalPrice float64 `json:"total_price"`
	} `json:"cart"`
}

func decodeCart(t *testing.T, buf *bytes.Buffer) cartJSON {
	t.Helper()
	var out cartJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	return out
}

func TestCart_RequiresLogin(t *testing.T) {
	useBackend(t)

	var buf bytes.Buffer
	if code := runCartShow(context.Background(), &buf); code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
	if !strings.Contains(buf.String(), "not logged in") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestCart_Lifecycle(t *testing.T) {
	useBackend(t)
	loginAs(t, "alice", "pw")
	ctx := context.Background()
	var buf bytes.Buffer

	if code := runCartShow(ctx, &buf); code != exitOK {
		t.Fatalf("show: exit %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "empty") {
		t.Errorf("expected empty cart, got: %s", buf.String())
	}

	buf.Reset()
	if code := runCartAdd(ctx, &buf, "SP001", 2); code != exitOK {
		t.Fatalf("add: exit %d: %s", code, buf.String())
	}
	if !strings.Contains(buf.String(), "Wireless Mouse") || !strings.Contains(buf.String(), "39.98") {
		t.Errorf("unexpected cart output: %s", buf.String())
	}

	jsonOutput = true
	buf.Reset()
	if code := runCartAdd(ctx, &buf, "SP001", 1); code != exitOK {
		t.Fatalf("add again: exit %d: %s", code, buf.String())
	}
	cart := decodeCart(t, &buf)
	if len(cart.Cart.Items) != 1 || cart.Cart.Items[0].Quantity != 3 {
		t.Errorf("expected one merged line of 3, got %+v", cart.Cart.Items)
	}

	buf.Reset()
	if code := runCartAdd(ctx, &buf, "SP003", 4); code != exitOK {
		t.Fatalf("add second product: exit %d: %s", code, buf.String())
	}

	buf.Reset()
	if code := runCartUpdate(ctx, &buf, "SP003", 1); code != exitOK {
		t.Fatalf("update: exit %d: %s", code, buf.String())
	}
	cart = decodeCart(t, &buf)
	if cart.Cart.TotalItems != 4 {
		t.Errorf("expected 4 items, got %d", cart.Cart.TotalItems)
	}

	buf.Reset()
	if code := runCartRemove(ctx, &buf, "SP001"); code != exitOK {
		t.Fatalf("remove: exit %d: %s", code, buf.String())
	}
	cart = decodeCart(t, &buf)
	if len(cart.Cart.Items) != 1 || cart.Cart.Items[0].ProductID != "SP003" {
		t.Errorf("unexpected items after remove: %+v", cart.Cart.Items)
	}

	buf.Reset()
	if code := runCartClear(ctx, &buf); code != exitOK {
		t.Fatalf("clear: exit %d: %s", code, buf.String())
	}
	cart = decodeCart(t, &buf)
	if cart.Cart.TotalItems != 0 || cart.Cart.TotalPrice != 0 {
		t.Errorf("expected empty cart, got %+v", cart.Cart)
	}
}

func TestCart_Rejections(t *testing.T) {
	useBackend(t)
	loginAs(t, "alice", "pw")
	ctx := context.Background()

	tests := map[string]struct {
		run  func(*bytes.Buffer) int
		want string
	}{
		"out of stock":    {func(b *bytes.Buffer) int { return runCartAdd(ctx, b, "SP005", 1) }, "out of stock"},
		"over stock":      {func(b *bytes.Buffer) int { return runCartAdd(ctx, b, "SP004", 4) }, "only 3 left"},
		"unknown product": {func(b *bytes.Buffer) int { return runCartAdd(ctx, b, "NOPE", 1) }, "not found"},
		"not in cart":     {func(b *bytes.Buffer) int { return runCartRemove(ctx, b, "SP001") }, "not in the cart"},
		"zero quantity":   {func(b *bytes.Buffer) int { return runCartAdd(ctx, b, "SP001", 0) }, "invalid input"},
	}
	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := tc.run(&buf); code != exitFailure {
				t.Errorf("expected exit %d, got %d: %s", exitFailure, code, buf.String())
			}
			if !strings.Contains(buf.String(), tc.want) {
				t.Errorf("expected %q in output, got: %s", tc.want, buf.String())
			}
		})
	}
}
