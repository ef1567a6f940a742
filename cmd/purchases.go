package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"cine-booking-cli/model"
	"cine-booking-cli/service"
	"cine-booking-cli/store"
)

var purchasesRefresh bool

var purchasesCmd = &cobra.Command{
	Use:   "compras",
	Short: "List the purchase history",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
		purchases, offline, err := loadPurchases(ctx, a, purchasesRefresh)
		if err != nil {
			return err
		}
		if offline {
			fmt.Fprintln(stdout, "Sem conexão: mostrando o último histórico salvo.")
		}
		printPurchases(purchases)
		return nil
	}),
}

var cancelYes bool

var cancelCmd = &cobra.Command{
	Use:   "cancelar <compra-id>",
	Short: "Cancel an active purchase",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		id, err := parseID(args[0], "compra")
		if err != nil {
			return err
		}
		purchases, _, err := loadPurchases(ctx, a, true)
		if err != nil {
			return err
		}

		var res model.PurchaseResponse
		if purchase, ok := findPurchase(purchases, id); ok {
			printPurchases([]model.Purchase{purchase})
			if !purchase.Cancellable() {
				return service.ErrNotCancellable
			}
			if !cancelYes && !confirm("Cancelar esta compra") {
				return errors.New("cancelamento abortado")
			}
			res, err = a.client.CancelKnownPurchase(ctx, purchase)
		} else {
			res, err = a.client.CancelPurchase(ctx, id)
		}
		if err != nil {
			return err
		}

		if user, ok := a.client.Identity(); ok {
			_ = store.ClearPurchaseCache(user.Username)
		}
		fmt.Fprintln(stdout, res.Message)
		return nil
	}),
}

func init() {
	purchasesCmd.Flags().BoolVarP(&purchasesRefresh, "atualizar", "r", false, "ignore the local cache")
	cancelCmd.Flags().BoolVarP(&cancelYes, "sim", "y", false, "skip the confirmation prompt")
}

// loadPurchases serves a fresh cache unless refresh is set, and falls back to
// any cached history when the API is unreachable.
func loadPurchases(ctx context.Context, a *app, refresh bool) ([]model.Purchase, bool, error) {
	if err := a.requireLogin(ctx); err != nil {
		if !service.IsConnection(err) {
			return nil, false, err
		}
		return cachedPurchases(a, err)
	}
	user, _ := a.client.Identity()

	if !refresh {
		if cached, fresh, err := store.LoadPurchaseCache(user.Username, a.cfg.HistoryTTL); err == nil && fresh && cached != nil {
			return cached, false, nil
		}
	}
	purchases, err := a.client.Purchases(ctx)
	if err != nil {
		if service.IsConnection(err) {
			return cachedPurchases(a, err)
		}
		return nil, false, err
	}
	if err := store.SavePurchaseCache(user.Username, purchases); err != nil {
		a.log.Warn("saving purchase cache failed", "error", err)
	}
	return purchases, false, nil
}

// cachedPurchases falls back to the history of the identity seen in this run.
func cachedPurchases(a *app, cause error) ([]model.Purchase, bool, error) {
	user, ok := a.client.Identity()
	if !ok {
		return nil, false, cause
	}
	cached, _, err := store.LoadPurchaseCache(user.Username, a.cfg.HistoryTTL)
	if err != nil || len(cached) == 0 {
		return nil, false, cause
	}
	return cached, true, nil
}

func findPurchase(purchases []model.Purchase, id int) (model.Purchase, bool) {
	for _, purchase := range purchases {
		if purchase.ID == id {
			return purchase, true
		}
	}
	return model.Purchase{}, false
}

func printPurchases(purchases []model.Purchase) {
	if len(purchases) == 0 {
		fmt.Fprintln(stdout, "Nenhuma compra encontrada.")
		return
	}
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Filme", "Sala", "Data", "Horário", "Poltronas", "Total", "Status"})
	for _, p := range purchases {
		t.AppendRow(table.Row{
			p.ID,
			p.FilmeNome,
			p.SalaNome,
			p.DataSessao,
			p.Horario,
			strings.Join(p.Poltronas, ", "),
			formatPrice(p.ValorTotal),
			p.Status.Label(),
		})
	}
	t.Render()
}
