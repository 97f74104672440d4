package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mesobgames/crash-backend/internal/models"
	repo "github.com/mesobgames/crash-backend/internal/repository"
)

func TestPlaceWagerDebitsAndCreates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	if _, err := s.GetOrCreate(ctx, 1, 500); err != nil {
		t.Fatalf("seed: %v", err)
	}

	start := time.Now()
	w, balance, err := s.PlaceWager(ctx, 1, 200, start)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if balance != 300 {
		t.Fatalf("balance = %d, want 300", balance)
	}
	if w.Status != models.WagerActive || w.BetAmount != 200 || !w.StartTime.Equal(start) {
		t.Fatalf("unexpected wager %+v", w)
	}

	got, err := s.GetWager(ctx, w.ID)
	if err != nil || got.ID != w.ID {
		t.Fatalf("get wager: %v %+v", err, got)
	}
}

func TestPlaceWagerInsufficient(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.GetOrCreate(ctx, 1, 100)

	if _, _, err := s.PlaceWager(ctx, 1, 101, time.Now()); !errors.Is(err, repo.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	a, _ := s.Get(ctx, 1)
	if a.Balance != 100 {
		t.Fatalf("failed place mutated balance: %d", a.Balance)
	}
}

func TestPlaceWagerUnknownAccount(t *testing.T) {
	s := NewStore()
	if _, _, err := s.PlaceWager(context.Background(), 9, 10, time.Now()); !errors.Is(err, repo.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
}

func TestSettleWinOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.GetOrCreate(ctx, 1, 100)
	w, _, _ := s.PlaceWager(ctx, 1, 100, time.Now())

	settled, balance, err := s.SettleWin(ctx, 1, w.ID, 2.0, 200)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if balance != 200 {
		t.Fatalf("balance = %d, want 200", balance)
	}
	if settled.Status != models.WagerPaid || settled.FinalMultiplier == nil || *settled.FinalMultiplier != 2.0 {
		t.Fatalf("unexpected wager %+v", settled)
	}

	// terminal state: a second settlement of any kind must fail
	if _, _, err := s.SettleWin(ctx, 1, w.ID, 2.0, 200); !errors.Is(err, repo.ErrWagerNotActive) {
		t.Fatalf("double win err = %v, want ErrWagerNotActive", err)
	}
	if _, err := s.SettleLoss(ctx, 1, w.ID); !errors.Is(err, repo.ErrWagerNotActive) {
		t.Fatalf("loss after win err = %v, want ErrWagerNotActive", err)
	}
	if _, err := s.VoidFraud(ctx, 1, w.ID, 9.9); !errors.Is(err, repo.ErrWagerNotActive) {
		t.Fatalf("fraud after win err = %v, want ErrWagerNotActive", err)
	}
	a, _ := s.Get(ctx, 1)
	if a.Balance != 200 {
		t.Fatalf("rejected transitions mutated balance: %d", a.Balance)
	}
}

func TestSettleWrongOwner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.GetOrCreate(ctx, 1, 100)
	w, _, _ := s.PlaceWager(ctx, 1, 100, time.Now())

	if _, _, err := s.SettleWin(ctx, 2, w.ID, 2.0, 200); !errors.Is(err, repo.ErrWagerNotActive) {
		t.Fatalf("wrong owner err = %v, want ErrWagerNotActive", err)
	}
	if _, err := s.SettleLoss(ctx, 2, w.ID); !errors.Is(err, repo.ErrWagerNotActive) {
		t.Fatalf("wrong owner loss err = %v, want ErrWagerNotActive", err)
	}
}

func TestVoidFraudRecordsClaim(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.GetOrCreate(ctx, 1, 100)
	w, _, _ := s.PlaceWager(ctx, 1, 100, time.Now())

	fw, err := s.VoidFraud(ctx, 1, w.ID, 99.5)
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if fw.Status != models.WagerFraud || fw.FinalMultiplier == nil || *fw.FinalMultiplier != 99.5 {
		t.Fatalf("unexpected wager %+v", fw)
	}
	a, _ := s.Get(ctx, 1)
	if a.Balance != 0 {
		t.Fatalf("fraud credited balance: %d", a.Balance)
	}
}

func TestListByUserOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.GetOrCreate(ctx, 1, 1000)
	for i := 0; i < 5; i++ {
		if _, _, err := s.PlaceWager(ctx, 1, 10, time.Now()); err != nil {
			t.Fatalf("place %d: %v", i, err)
		}
		time.Sleep(time.Millisecond)
	}

	all, err := s.ListByUser(ctx, 1, 50, 0)
	if err != nil || len(all) != 5 {
		t.Fatalf("list: %v, n=%d", err, len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Fatal("list is not newest-first")
		}
	}

	page, err := s.ListByUser(ctx, 1, 2, 4)
	if err != nil || len(page) != 1 {
		t.Fatalf("page: %v, n=%d", err, len(page))
	}
	if empty, _ := s.ListByUser(ctx, 1, 2, 10); empty != nil {
		t.Fatalf("offset past end should be empty, got %d", len(empty))
	}
}
