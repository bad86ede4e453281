package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/domain"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	outbox "github.com/Jerry1921/mini-ecommerce-api-2/pkg/outbox/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/outbox/worker"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/testsuite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type PlacementSuite struct {
	testsuite.BaseSuite

	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	outboxRepo  worker.OutboxRepository

	authSvc    AuthService
	productSvc ProductService
	cartSvc    CartService
	orderSvc   OrderService
}

func TestPlacementSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}
	suite.Run(t, new(PlacementSuite))
}

func (s *PlacementSuite) SetupSuite() {
	s.SetupInfrastructure("../../migrations", false)

	logger := zap.NewNop()

	s.userRepo = repository.NewUserRepository(s.DbPool, logger)
	s.productRepo = repository.NewProductRepository(s.DbPool, logger)
	s.cartRepo = repository.NewCartRepository(s.DbPool, logger)
	s.orderRepo = repository.NewOrderRepository(s.DbPool, logger)
	s.outboxRepo = outbox.NewOutboxRepository(s.DbPool, logger)

	s.authSvc = NewAuthService(s.userRepo, s.cartRepo, s.DbPool, logger, "test-secret", 15*time.Minute)
	s.productSvc = NewProductService(s.productRepo, logger)
	s.cartSvc = NewCartService(s.cartRepo, s.productRepo, logger)
	s.orderSvc = NewOrderService(s.orderRepo, s.cartRepo, s.productRepo, s.outboxRepo, s.DbPool, "order_events", logger)
}

func (s *PlacementSuite) TearDownSuite() {
	s.TearDownInfrastructure()
}

func (s *PlacementSuite) SetupTest() {
	s.TruncateTable("outbox")
	s.TruncateTable("order_items")
	s.TruncateTable("orders")
	s.TruncateTable("cart_items")
	s.TruncateTable("carts")
	s.TruncateTable("products")
	s.TruncateTable("users")
}

func (s *PlacementSuite) registerUser(name string) *domain.User {
	user, err := s.authSvc.Register(s.Ctx, name, name+"@example.com", "password123")
	s.Require().NoError(err)
	return user
}

func (s *PlacementSuite) createProduct(name string, price, stock int64) int64 {
	id, err := s.productSvc.Create(s.Ctx, &domain.Product{
		Name:          name,
		Description:   "test product",
		Price:         price,
		StockQuantity: stock,
	})
	s.Require().NoError(err)
	return id
}

func (s *PlacementSuite) stockOf(productID int64) int64 {
	_, stock, err := s.productRepo.GetAvailability(s.Ctx, productID)
	s.Require().NoError(err)
	return stock
}

func (s *PlacementSuite) TestPlaceOrder_Success() {
	user := s.registerUser("alice")
	mugID := s.createProduct("mug", 500, 10)
	shirtID := s.createProduct("shirt", 450, 5)

	_, err := s.cartSvc.AddItem(s.Ctx, user.ID, mugID, 2)
	s.Require().NoError(err)
	_, err = s.cartSvc.AddItem(s.Ctx, user.ID, shirtID, 3)
	s.Require().NoError(err)

	order, err := s.orderSvc.PlaceOrder(s.Ctx, user.ID)
	s.Require().NoError(err)

	s.Equal(domain.OrderStatusPending, order.Status)
	s.Equal(int64(2350), order.TotalAmount)
	s.Len(order.Items, 2)

	// Stock was decremented.
	s.Equal(int64(8), s.stockOf(mugID))
	s.Equal(int64(2), s.stockOf(shirtID))

	// Cart is empty again.
	cart, err := s.cartSvc.GetCart(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Empty(cart.Items)

	// Outbox row waits for the publisher.
	var count int64
	s.Require().NoError(s.DbPool.QueryRow(
		s.Ctx,
		"SELECT COUNT(*) FROM outbox WHERE event_type = 'OrderPlaced' AND published_at IS NULL",
	).Scan(&count))
	s.Equal(int64(1), count)
}

func (s *PlacementSuite) TestPlaceOrder_EmptyCart() {
	user := s.registerUser("bob")

	_, err := s.orderSvc.PlaceOrder(s.Ctx, user.ID)
	s.ErrorIs(err, ErrEmptyCart)
}

func (s *PlacementSuite) TestPlaceOrder_InsufficientStockRollsBack() {
	user := s.registerUser("carol")
	mugID := s.createProduct("mug", 500, 10)
	shirtID := s.createProduct("shirt", 450, 5)

	_, err := s.cartSvc.AddItem(s.Ctx, user.ID, mugID, 2)
	s.Require().NoError(err)
	_, err = s.cartSvc.AddItem(s.Ctx, user.ID, shirtID, 5)
	s.Require().NoError(err)

	// Another shopper takes shirts after carol filled her cart.
	s.Require().NoError(s.productRepo.SetStock(s.Ctx, shirtID, 3))

	_, err = s.orderSvc.PlaceOrder(s.Ctx, user.ID)
	s.Require().Error(err)
	s.ErrorIs(err, repository.ErrInsufficientStock)

	var stockErr *InsufficientStockError
	s.Require().ErrorAs(err, &stockErr)
	s.Equal("shirt", stockErr.Product)
	s.Equal(int64(3), stockErr.Available)

	// Nothing committed: stock, orders and the cart are untouched.
	s.Equal(int64(10), s.stockOf(mugID))
	s.Equal(int64(3), s.stockOf(shirtID))

	var orders int64
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM orders").Scan(&orders))
	s.Zero(orders)

	cart, err := s.cartSvc.GetCart(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Len(cart.Items, 2)
}

func (s *PlacementSuite) TestPlaceOrder_PriceSnapshotSurvivesCatalogChange() {
	user := s.registerUser("dave")
	mugID := s.createProduct("mug", 500, 10)

	_, err := s.cartSvc.AddItem(s.Ctx, user.ID, mugID, 2)
	s.Require().NoError(err)

	order, err := s.orderSvc.PlaceOrder(s.Ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(int64(1000), order.TotalAmount)

	newPrice := int64(999)
	s.Require().NoError(s.productSvc.Update(s.Ctx, mugID, &domain.UpdateProductInput{Price: &newPrice}))

	reread, err := s.orderSvc.GetOrderByID(s.Ctx, user.ID, order.ID, false)
	s.Require().NoError(err)
	s.Equal(int64(1000), reread.TotalAmount)
	s.Equal(int64(500), reread.Items[0].Price)
}

func (s *PlacementSuite) TestPlaceOrder_ConcurrentLastUnit() {
	mugID := s.createProduct("mug", 500, 1)

	const shoppers = 4
	users := make([]*domain.User, shoppers)
	for i := range users {
		users[i] = s.registerUser(fmt.Sprintf("shopper%d", i))
		_, err := s.cartSvc.AddItem(s.Ctx, users[i].ID, mugID, 1)
		s.Require().NoError(err)
	}

	var wg sync.WaitGroup
	errs := make([]error, shoppers)

	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.orderSvc.PlaceOrder(s.Ctx, users[i].ID)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		s.ErrorIs(err, repository.ErrInsufficientStock)
		lost++
	}

	s.Equal(1, won)
	s.Equal(shoppers-1, lost)
	s.Zero(s.stockOf(mugID))

	var orders int64
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM orders").Scan(&orders))
	s.Equal(int64(1), orders)
}

func (s *PlacementSuite) TestPlaceOrder_DeletedProductStillInCart() {
	user := s.registerUser("erin")
	mugID := s.createProduct("mug", 500, 10)

	_, err := s.cartSvc.AddItem(s.Ctx, user.ID, mugID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.productSvc.Delete(s.Ctx, mugID))

	_, err = s.orderSvc.PlaceOrder(s.Ctx, user.ID)
	s.ErrorIs(err, repository.ErrProductNotFound)
}

func (s *PlacementSuite) TestPlaceOrder_DeletedProductAmongLiveOnes() {
	user := s.registerUser("heidi")
	mugID := s.createProduct("mug", 500, 10)
	shirtID := s.createProduct("shirt", 450, 5)

	_, err := s.cartSvc.AddItem(s.Ctx, user.ID, mugID, 2)
	s.Require().NoError(err)
	_, err = s.cartSvc.AddItem(s.Ctx, user.ID, shirtID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.productSvc.Delete(s.Ctx, shirtID))

	// One dead line poisons the whole placement. The live line must not
	// be ordered on its own, and the cart keeps both lines.
	_, err = s.orderSvc.PlaceOrder(s.Ctx, user.ID)
	s.ErrorIs(err, repository.ErrProductNotFound)

	s.Equal(int64(10), s.stockOf(mugID))

	var orders int64
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM orders").Scan(&orders))
	s.Zero(orders)

	var lines int64
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM cart_items").Scan(&lines))
	s.Equal(int64(2), lines)
}

func (s *PlacementSuite) TestPlaceOrder_OppositeCartOrders() {
	mugID := s.createProduct("mug", 500, 5)
	shirtID := s.createProduct("shirt", 450, 5)

	ivan := s.registerUser("ivan")
	_, err := s.cartSvc.AddItem(s.Ctx, ivan.ID, mugID, 2)
	s.Require().NoError(err)
	_, err = s.cartSvc.AddItem(s.Ctx, ivan.ID, shirtID, 2)
	s.Require().NoError(err)

	judy := s.registerUser("judy")
	_, err = s.cartSvc.AddItem(s.Ctx, judy.ID, shirtID, 2)
	s.Require().NoError(err)
	_, err = s.cartSvc.AddItem(s.Ctx, judy.ID, mugID, 2)
	s.Require().NoError(err)

	// Both carts hold the same two products added in reverse order. The
	// decrements are sorted by product ID, so the concurrent transactions
	// lock rows in the same sequence and neither deadlocks.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []int64{ivan.ID, judy.ID} {
		wg.Add(1)
		go func(i int, userID int64) {
			defer wg.Done()
			_, errs[i] = s.orderSvc.PlaceOrder(s.Ctx, userID)
		}(i, userID)
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])

	s.Equal(int64(1), s.stockOf(mugID))
	s.Equal(int64(1), s.stockOf(shirtID))

	var orders int64
	s.Require().NoError(s.DbPool.QueryRow(s.Ctx, "SELECT COUNT(*) FROM orders").Scan(&orders))
	s.Equal(int64(2), orders)
}

func (s *PlacementSuite) TestRegister_DuplicateUsername() {
	s.registerUser("frank")

	_, err := s.authSvc.Register(s.Ctx, "frank", "other@example.com", "password123")
	s.ErrorIs(err, repository.ErrUserExists)
}

func (s *PlacementSuite) TestLogin_WrongPassword() {
	s.registerUser("grace")

	_, _, err := s.authSvc.Login(s.Ctx, "grace", "not-the-password")
	s.ErrorIs(err, ErrInvalidCredentials)

	token, user, err := s.authSvc.Login(s.Ctx, "grace", "password123")
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Equal("grace", user.Username)
}
