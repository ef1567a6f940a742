package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cine-booking-cli/booking"
	"cine-booking-cli/model"
	"cine-booking-cli/store"
)

func setTestEnv(t *testing.T, apiURL string) *bytes.Buffer {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
	t.Setenv("XDG_CACHE_HOME", root)
	t.Setenv("CINE_API_URL", apiURL)
	t.Setenv("CINE_LOG_FILE", root+"/cine.log")

	var out bytes.Buffer
	previous := stdout
	stdout = &out
	t.Cleanup(func() { stdout = previous })
	return &out
}

func setBuyFlags(t *testing.T, film int, room int, showtime string, seats string, resume bool) {
	t.Helper()
	buyFilmID, buyRoomID, buyShowtime, buySeats, buyResume, buyYes = film, room, showtime, seats, resume, true
	t.Cleanup(func() {
		buyFilmID, buyRoomID, buyShowtime, buySeats, buyResume, buyYes = 0, 0, "", "", false, false
	})
}

// bookingServer answers check-auth with the given login state and accepts
// every purchase.
func bookingServer(t *testing.T, loggedIn bool, created *model.PurchaseRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/check-auth":
			if loggedIn {
				_, _ = w.Write([]byte(`{"authenticated":true,"user":{"id":1,"username":"maria"}}`))
				return
			}
			_, _ = w.Write([]byte(`{"authenticated":false}`))
		case "/api/compras":
			if err := json.NewDecoder(r.Body).Decode(created); err != nil {
				t.Errorf("decode purchase: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Compra realizada com sucesso","compra":{"id":9,"status":"ativo"}}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestParseSeatList(t *testing.T) {
	labels, err := parseSeatList("a1, A1 ,b5,")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if strings.Join(labels, ",") != "A1,B5" {
		t.Fatalf("unexpected labels: %v", labels)
	}

	if _, err := parseSeatList("Z1"); err == nil {
		t.Fatal("expected error for row outside the grid")
	}
	if _, err := parseSeatList(" , "); !errors.Is(err, booking.ErrEmptySelection) {
		t.Fatalf("expected empty selection error, got %v", err)
	}
}

func TestPrintSeatMap(t *testing.T) {
	var out bytes.Buffer
	printSeatMap(&out, booking.BuildGrid(map[int]bool{5: true}, []string{"A1"}))

	text := out.String()
	if !strings.Contains(text, "A ** [] [] [] XX") {
		t.Fatalf("unexpected first row:\n%s", text)
	}
	if !strings.Contains(text, "Livres: 78 • Ocupadas: 1 • Selecionadas: 1 • Total: 80") {
		t.Fatalf("unexpected counts:\n%s", text)
	}
}

func TestFilmsCommand(t *testing.T) {
	out := setTestEnv(t, "http://127.0.0.1:1/api")
	if err := filmsCmd.RunE(filmsCmd, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out.String(), "Parasita") {
		t.Fatalf("expected film in output:\n%s", out.String())
	}
}

func TestSeatsCommand_UnknownRoom(t *testing.T) {
	setTestEnv(t, "http://127.0.0.1:1/api")
	err := seatsCmd.RunE(seatsCmd, []string{"1", "3"})
	if err == nil || err.Error() != "Sessão não encontrada!" {
		t.Fatalf("expected not found message, got %v", err)
	}
}

func TestBuyCommand_Purchases(t *testing.T) {
	var created model.PurchaseRequest
	server := bookingServer(t, true, &created)
	out := setTestEnv(t, server.URL+"/api")
	setBuyFlags(t, 1, 1, "14:00", "a1,A2", false)

	if err := buyCmd.RunE(buyCmd, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.ValorTotal != 50 || strings.Join(created.Poltronas, ",") != "A1,A2" {
		t.Fatalf("unexpected request: %+v", created)
	}
	if created.FilmeNome != "Vingadores: Ultimato" || created.SalaNome != "Sala 1" {
		t.Fatalf("expected names from catalog, got %+v", created)
	}
	if !strings.Contains(out.String(), "Compra realizada com sucesso") {
		t.Fatalf("expected confirmation in output:\n%s", out.String())
	}
}

func TestBuyCommand_OccupiedSeat(t *testing.T) {
	setTestEnv(t, "http://127.0.0.1:1/api")
	setBuyFlags(t, 1, 1, "14:00", "A5", false)

	err := buyCmd.RunE(buyCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "A5") {
		t.Fatalf("expected occupied seat error, got %v", err)
	}
}

func TestBuyCommand_LoginRoundTrip(t *testing.T) {
	var created model.PurchaseRequest
	anonymous := bookingServer(t, false, &created)
	setTestEnv(t, anonymous.URL+"/api")
	setBuyFlags(t, 2, 3, "19:00", "C7", false)

	err := buyCmd.RunE(buyCmd, nil)
	if err == nil || err.Error() != "Você precisa estar logado para finalizar a compra." {
		t.Fatalf("expected authentication message, got %v", err)
	}
	slot, err := store.PendingSlot()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !slot.Pending() {
		t.Fatal("expected selection to be kept")
	}

	logged := bookingServer(t, true, &created)
	t.Setenv("CINE_API_URL", logged.URL+"/api")
	setBuyFlags(t, 0, 0, "", "", true)
	if err := buyCmd.RunE(buyCmd, nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if created.FilmeID != 2 || created.SalaID != 3 || created.Horario != "19:00" {
		t.Fatalf("unexpected resumed request: %+v", created)
	}
	if slot.Pending() {
		t.Fatal("expected slot to be consumed")
	}
}
