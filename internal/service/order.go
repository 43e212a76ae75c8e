package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/queue"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/utils"
)

// PaymentMethods lists the accepted payment labels.  No charge is made;
// the label tells staff how the customer intends to pay.
var PaymentMethods = []string{"paypal", "binance", "usdt", "mada", "stc"}

// orderNumberAttempts bounds how many fresh numbers Create tries when the
// generated one collides with an existing order.
const orderNumberAttempts = 3

// OrderStore is the slice of the order repository the service needs.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	GetByID(ctx context.Context, id uint64) (*model.Order, error)
	TransitionStatus(ctx context.Context, id uint64, to string, allowed func(from, to string) bool) (string, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	Stats(ctx context.Context) (model.OrderStats, error)
}

// ProductLookup loads a single product.
type ProductLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.Product, error)
}

// GameLookup loads a single game.
type GameLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.Game, error)
}

// OfferLookup lists the offers of a game that are active at now.
type OfferLookup interface {
	ListActiveForGame(ctx context.Context, gameID uint64, now time.Time) ([]*model.Offer, error)
}

// CreateOrderInput is the checkout form.  PackagePrice is what the client
// displayed; the stored price is always re-resolved from the catalog.
type CreateOrderInput struct {
	GameID        uint64
	GameName      string
	PackageID     uint64
	PackageName   string
	PackagePrice  decimal.Decimal
	PlayerID      string
	AccountName   string
	PaymentMethod string
	Email         string
}

// OrderResult is returned by Create.
type OrderResult struct {
	OrderID     uint64          `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
}

// OrderService places orders and drives their fulfillment status.
type OrderService struct {
	orders    OrderStore
	products  ProductLookup
	games     GameLookup
	offers    OfferLookup
	events    EventPublisher
	now       func() time.Time
	newNumber func(time.Time) (string, error)
}

func NewOrderService(orders OrderStore, products ProductLookup, games GameLookup, offers OfferLookup, events EventPublisher) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderService{
		orders:    orders,
		products:  products,
		games:     games,
		offers:    offers,
		events:    events,
		now:       time.Now,
		newNumber: utils.NewOrderNumber,
	}
}

// Create validates the checkout form, prices the package from the catalog
// and stores a pending order for user.
func (s *OrderService) Create(ctx context.Context, user *model.User, in CreateOrderInput) (*OrderResult, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetByID(ctx, in.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if product.GameID != in.GameID || product.Status != model.StatusActive {
		return nil, ErrNotFound
	}
	game, err := s.games.GetByID(ctx, in.GameID)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if game.Status != model.StatusActive {
		return nil, ErrNotFound
	}
	if !product.InStock() {
		return nil, ErrOutOfStock
	}

	now := s.now()
	offers, err := s.offers.ListActiveForGame(ctx, game.ID, now)
	if err != nil {
		return nil, err
	}
	quote := ResolvePrice(*product, offersFor(product.ID, offers))
	if !quote.Price.Equal(in.PackagePrice) {
		log.Printf("orders: client price %s for product %d differs from resolved %s; using resolved",
			in.PackagePrice.StringFixed(2), product.ID, quote.Price.StringFixed(2))
	}

	o := &model.Order{
		UserID:        user.ID,
		GameID:        game.ID,
		GameName:      game.Name,
		PackageID:     product.ID,
		PackageName:   product.Name,
		PackagePrice:  quote.Price,
		PlayerID:      in.PlayerID,
		AccountName:   in.AccountName,
		PaymentMethod: in.PaymentMethod,
	}
	if in.Email != "" {
		email := in.Email
		o.ContactEmail = &email
	}

	if err := s.insertWithNumber(ctx, o, now); err != nil {
		return nil, err
	}

	s.publish(ctx, queue.OrderEvent{
		Type:          queue.OrderCreatedQueue,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		GameName:      o.GameName,
		PackageName:   o.PackageName,
		Price:         o.PackagePrice,
		PaymentMethod: o.PaymentMethod,
		Status:        o.Status,
		OccurredAt:    now.UTC().Format(time.RFC3339),
	})
	return &OrderResult{OrderID: o.ID, OrderNumber: o.OrderNumber, Price: o.PackagePrice, Status: o.Status}, nil
}

func (s *OrderService) insertWithNumber(ctx context.Context, o *model.Order, now time.Time) error {
	for attempt := 1; ; attempt++ {
		number, err := s.newNumber(now)
		if err != nil {
			return err
		}
		o.OrderNumber = number
		err = s.orders.Create(ctx, o)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrOrderNumberExists) && attempt < orderNumberAttempts:
			log.Printf("orders: order number %s taken, retrying", number)
			continue
		case errors.Is(err, repository.ErrOutOfStock):
			return ErrOutOfStock
		case errors.Is(err, repository.ErrProductNotFound):
			return ErrNotFound
		default:
			return err
		}
	}
}

// UpdateStatus moves an order to status if the transition is allowed from
// its current status.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint64, status string) (*model.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	var fe fieldErrors
	fe.check(orderID > 0, "orderId")
	fe.check(model.ValidOrderStatus(status), "status")
	if err := fe.err(); err != nil {
		return nil, err
	}

	from, err := s.orders.TransitionStatus(ctx, orderID, status, model.CanTransition)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.OrderEvent{
		Type:           queue.OrderStatusChangedQueue,
		OrderID:        o.ID,
		OrderNumber:    o.OrderNumber,
		UserID:         o.UserID,
		Price:          o.PackagePrice,
		Status:         o.Status,
		PreviousStatus: from,
		OccurredAt:     s.now().UTC().Format(time.RFC3339),
	})
	return o, nil
}

// ListForUser returns the orders of userID, newest first, with per-status
// counts for the customer dashboard.
func (s *OrderService) ListForUser(ctx context.Context, userID uint64) ([]*model.Order, model.UserOrderCounts, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, model.UserOrderCounts{}, err
	}
	return orders, CountOrders(orders), nil
}

// ListAll returns every order for the admin table.
func (s *OrderService) ListAll(ctx context.Context) ([]*model.Order, error) {
	return s.orders.ListAll(ctx)
}

// DashboardStats returns the admin dashboard figures.
func (s *OrderService) DashboardStats(ctx context.Context) (model.OrderStats, error) {
	return s.orders.Stats(ctx)
}

// CountOrders tallies orders by status.  Processing and refunded orders are
// counted in Total only.
func CountOrders(orders []*model.Order) model.UserOrderCounts {
	c := model.UserOrderCounts{Total: len(orders), Spent: Revenue(orders)}
	for _, o := range orders {
		switch o.Status {
		case model.OrderPending:
			c.Pending++
		case model.OrderCompleted:
			c.Completed++
		case model.OrderFailed:
			c.Failed++
		}
	}
	return c
}

// Revenue sums the price of completed orders.
func Revenue(orders []*model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == model.OrderCompleted {
			total = total.Add(o.PackagePrice)
		}
	}
	return model.RoundMoney(total)
}

func (s *OrderService) publish(ctx context.Context, ev queue.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("orders: publish %s for %s: %v", ev.Type, ev.OrderNumber, err)
	}
}

func (in CreateOrderInput) trimmed() CreateOrderInput {
	in.GameName = strings.TrimSpace(in.GameName)
	in.PackageName = strings.TrimSpace(in.PackageName)
	in.PlayerID = strings.TrimSpace(in.PlayerID)
	in.AccountName = strings.TrimSpace(in.AccountName)
	in.PaymentMethod = strings.ToLower(strings.TrimSpace(in.PaymentMethod))
	in.Email = normalizeEmail(in.Email)
	return in
}

func (in CreateOrderInput) validate() error {
	var fe fieldErrors
	fe.check(in.GameID > 0, "gameId")
	fe.check(in.GameName != "", "gameName")
	fe.check(in.PackageID > 0, "packageId")
	fe.check(in.PackageName != "", "packageName")
	fe.check(in.PackagePrice.IsPositive(), "packagePrice")
	fe.check(in.PlayerID != "", "playerId")
	fe.check(in.AccountName != "", "accountName")
	fe.check(validPaymentMethod(in.PaymentMethod), "paymentMethod")
	fe.check(in.Email == "" || validEmail(in.Email), "email")
	return fe.err()
}

func validPaymentMethod(m string) bool {
	for _, p := range PaymentMethods {
		if p == m {
			return true
		}
	}
	return false
}
