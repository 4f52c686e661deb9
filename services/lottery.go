package services

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/luckyfive/lottery-backend/config"
	"github.com/luckyfive/lottery-backend/models"
	"github.com/luckyfive/lottery-backend/utils/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TicketCap   = 50 // numbers 1..50 per round
	TicketPrice = 50
	MaxPerUser  = 3
)

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrTicketLimit       = errors.New("ticket limit reached")
	ErrNotEnoughTickets  = errors.New("not enough tickets remaining")
)

// Service owns the round lifecycle: fetch-or-create of the active round,
// ticket allocation and the draw. Every read-then-write sequence runs under
// the service mutex and a DB transaction so the round invariants hold with
// concurrent requests.
type Service struct {
	db   *gorm.DB
	mu   sync.Mutex
	rng  *rand.Rand
	draw func() int // winning number source
}

// Lottery is the process-wide service instance, set up from main.
var Lottery *Service

func InitLotteryService() {
	Lottery = NewService(config.DB, nil)
	lottery, err := Lottery.CurrentLottery()
	if err != nil {
		logger.Log.Fatalf("Failed to open initial lottery: %v", err)
	}
	logger.Infof("Lottery service ready, active round %d", lottery.ID)
}

// NewService creates a lottery service. A nil rng gets a time-seeded one.
func NewService(db *gorm.DB, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Service{db: db, rng: rng}
	s.draw = func() int { return s.rng.Intn(TicketCap) + 1 }
	return s
}

// SetDrawFunc overrides the winning number source. Used by tests.
func (s *Service) SetDrawFunc(f func() int) {
	s.draw = f
}

// CurrentLottery returns the active round, creating one if none exists.
func (s *Service) CurrentLottery() (*models.Lottery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lottery *models.Lottery
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		lottery, txErr = currentLottery(tx)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return lottery, nil
}

func currentLottery(tx *gorm.DB) (*models.Lottery, error) {
	var lottery models.Lottery
	err := tx.Where("is_active = ?", true).First(&lottery).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lottery = models.Lottery{IsActive: true}
		if err := tx.Create(&lottery).Error; err != nil {
			return nil, err
		}
		return &lottery, nil
	}
	if err != nil {
		return nil, err
	}
	return &lottery, nil
}

// TicketsAvailable returns how many numbers are still unsold in the round.
func (s *Service) TicketsAvailable(lotteryID uint) (int, error) {
	var sold int64
	if err := s.db.Model(&models.Ticket{}).Where("lottery_id = ?", lotteryID).Count(&sold).Error; err != nil {
		return 0, err
	}
	return TicketCap - int(sold), nil
}

// StatusInfo is the public view of the current round. UserTickets is only
// filled when the caller is authenticated.
type StatusInfo struct {
	TicketsSold      int   `json:"tickets_sold"`
	TicketsAvailable int   `json:"tickets_available"`
	PrizePool        int64 `json:"prize_pool"`
	UserTickets      []int `json:"user_tickets"`
	IsActive         bool  `json:"is_active"`
	WinningNumber    *int  `json:"winning_number"`
	WinnerID         *uint `json:"winner_id"`
}

// Status reports the current round. Pass userID 0 for the anonymous view.
func (s *Service) Status(userID uint) (*StatusInfo, error) {
	lottery, err := s.CurrentLottery()
	if err != nil {
		return nil, err
	}

	var sold int64
	if err := s.db.Model(&models.Ticket{}).Where("lottery_id = ?", lottery.ID).Count(&sold).Error; err != nil {
		return nil, err
	}

	userTickets := []int{}
	if userID != 0 {
		if err := s.db.Model(&models.Ticket{}).
			Where("user_id = ? AND lottery_id = ?", userID, lottery.ID).
			Order("number").
			Pluck("number", &userTickets).Error; err != nil {
			return nil, err
		}
	}

	return &StatusInfo{
		TicketsSold:      int(sold),
		TicketsAvailable: TicketCap - int(sold),
		PrizePool:        lottery.PrizePool,
		UserTickets:      userTickets,
		IsActive:         lottery.IsActive,
		WinningNumber:    lottery.WinningNumber,
		WinnerID:         lottery.WinnerID,
	}, nil
}

// DrawResult describes a resolved round. WinnerID is nil when nobody held
// the drawn number.
type DrawResult struct {
	WinningNumber int
	WinnerID      *uint
	WinnerName    string
	Prize         int64
}

// PurchaseResult is returned from a successful ticket purchase.
type PurchaseResult struct {
	TicketNumbers []int
	GameCompleted bool
	Draw          *DrawResult
}

// BuyTickets validates and processes a purchase for the current round.
// If the purchase fills the round, the draw runs in the same transaction.
func (s *Service) BuyTickets(userID uint, quantity int) (*PurchaseResult, error) {
	if quantity < 1 || quantity > MaxPerUser {
		return nil, ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := &PurchaseResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lottery, err := currentLottery(tx)
		if err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		cost := int64(quantity) * TicketPrice
		if user.Balance < cost {
			return ErrInsufficientFunds
		}

		var owned int64
		if err := tx.Model(&models.Ticket{}).
			Where("user_id = ? AND lottery_id = ?", userID, lottery.ID).
			Count(&owned).Error; err != nil {
			return err
		}
		if int(owned)+quantity > MaxPerUser {
			return ErrTicketLimit
		}

		var soldNumbers []int
		if err := tx.Model(&models.Ticket{}).
			Where("lottery_id = ?", lottery.ID).
			Pluck("number", &soldNumbers).Error; err != nil {
			return err
		}
		if quantity > TicketCap-len(soldNumbers) {
			return ErrNotEnoughTickets
		}

		user.Balance -= cost
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		lottery.PrizePool += cost
		if err := tx.Save(lottery).Error; err != nil {
			return err
		}

		numbers := s.assignNumbers(soldNumbers, quantity)
		for _, n := range numbers {
			ticket := models.Ticket{Number: n, UserID: userID, LotteryID: lottery.ID}
			if err := tx.Create(&ticket).Error; err != nil {
				return err
			}
		}
		result.TicketNumbers = numbers

		meta, _ := json.Marshal(map[string]any{
			"lottery_id":     lottery.ID,
			"ticket_numbers": numbers,
		})
		purchase := models.Transaction{
			UserID:       userID,
			Type:         models.PurchaseTransaction,
			Amount:       -cost,
			Status:       models.TransactionCompleted,
			BalanceAfter: user.Balance,
			Meta:         datatypes.JSON(meta),
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		if len(soldNumbers)+quantity >= TicketCap {
			draw, err := s.drawWinner(tx, lottery)
			if err != nil {
				return err
			}
			result.GameCompleted = true
			result.Draw = draw
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("User %d bought %d ticket(s): %v", userID, quantity, result.TicketNumbers)
	return result, nil
}

// assignNumbers picks quantity distinct unsold numbers by shuffling the
// remaining set.
func (s *Service) assignNumbers(soldNumbers []int, quantity int) []int {
	taken := make(map[int]bool, len(soldNumbers))
	for _, n := range soldNumbers {
		taken[n] = true
	}

	remaining := make([]int, 0, TicketCap-len(soldNumbers))
	for n := 1; n <= TicketCap; n++ {
		if !taken[n] {
			remaining = append(remaining, n)
		}
	}

	s.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	return remaining[:quantity]
}

// drawWinner resolves a full round: draws the winning number, pays the
// holder if one exists, closes the round and opens the next one. Must run
// inside the caller's transaction so close and rollover are atomic.
func (s *Service) drawWinner(tx *gorm.DB, lottery *models.Lottery) (*DrawResult, error) {
	// Drawn from the full 1..50 regardless of which numbers sold, so a
	// round can resolve with no winner.
	winningNumber := s.draw()
	result := &DrawResult{WinningNumber: winningNumber}

	now := time.Now()
	lottery.WinningNumber = &winningNumber
	lottery.IsActive = false
	lottery.CompletedAt = &now

	housePortion := lottery.PrizePool

	var ticket models.Ticket
	err := tx.Where("number = ? AND lottery_id = ?", winningNumber, lottery.ID).First(&ticket).Error
	if err == nil {
		var winner models.User
		if err := tx.First(&winner, ticket.UserID).Error; err != nil {
			return nil, err
		}

		prize := lottery.PrizePool * 9 / 10
		winner.Balance += prize
		if err := tx.Save(&winner).Error; err != nil {
			return nil, err
		}
		lottery.WinnerID = &winner.ID
		housePortion = lottery.PrizePool - prize

		meta, _ := json.Marshal(map[string]any{
			"lottery_id":     lottery.ID,
			"winning_number": winningNumber,
		})
		payout := models.Transaction{
			UserID:       winner.ID,
			Type:         models.PrizeTransaction,
			Amount:       prize,
			Status:       models.TransactionCompleted,
			BalanceAfter: winner.Balance,
			Meta:         datatypes.JSON(meta),
		}
		if err := tx.Create(&payout).Error; err != nil {
			return nil, err
		}

		result.WinnerID = &winner.ID
		result.WinnerName = winner.Username
		result.Prize = prize
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	houseMeta, _ := json.Marshal(map[string]any{
		"lottery_id":     lottery.ID,
		"winning_number": winningNumber,
	})
	houseCut := models.Transaction{
		UserID: 0,
		Type:   models.HouseCutTransaction,
		Amount: housePortion,
		Status: models.TransactionCompleted,
		Meta:   datatypes.JSON(houseMeta),
	}
	if err := tx.Create(&houseCut).Error; err != nil {
		return nil, err
	}

	if err := tx.Save(lottery).Error; err != nil {
		return nil, err
	}

	next := models.Lottery{IsActive: true}
	if err := tx.Create(&next).Error; err != nil {
		return nil, err
	}

	if result.WinnerID != nil {
		logger.Infof("Round %d complete: number %d won by %s (prize %d)", lottery.ID, winningNumber, result.WinnerName, result.Prize)
	} else {
		logger.Infof("Round %d complete: number %d unsold, no winner", lottery.ID, winningNumber)
	}
	return result, nil
}
