package handler

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/service"
)

// newAdminEcho serves the admin handlers without the role gate, which is
// covered by the router tests.
func newAdminEcho(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	games := repository.NewGameRepo(db)
	products := repository.NewProductRepo(db)
	offers := repository.NewOfferRepo(db)
	packs := repository.NewPackRepo(db)
	orders := service.NewOrderService(repository.NewOrderRepo(db), products, games, offers, nil)
	h := NewAdminHandler(games, products, offers, packs, orders, time.Second)

	e := echo.New()
	e.Validator = NewRequestValidator()
	e.POST("/admin/games", h.CreateGame)
	e.POST("/admin/products", h.CreateProduct)
	e.POST("/admin/products/bulk-update", h.BulkUpdatePrices)
	e.POST("/admin/offers", h.CreateOffer)
	e.POST("/admin/packs", h.CreatePack)
	e.PUT("/admin/packs/:id", h.UpdatePack)
	e.DELETE("/admin/packs/:id", h.DeletePack)
	e.POST("/admin/orders/update", h.UpdateOrderStatus)
	return e, mock
}

func TestCreateGameDuplicateSlug(t *testing.T) {
	e, mock := newAdminEcho(t)
	mock.ExpectExec("INSERT INTO games").WithArgs("PUBG Mobile", "pubg-mobile", nil, nil, nil).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'pubg-mobile' for key 'games.uq_games_slug'"})

	rec := send(e, http.MethodPost, "/admin/games", `{"name":" PUBG Mobile ","slug":"PUBG-Mobile"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, service.ErrDuplicateSlug.Error(), decode(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProductRejectsBadPricesBeforeStorage(t *testing.T) {
	e, mock := newAdminEcho(t)

	rec := send(e, http.MethodPost, "/admin/products", `{"game_id":1,"name":"60 UC","base_price":5,"discount_price":6}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"discount_price"}, decode(t, rec)["fields"])

	rec = send(e, http.MethodPost, "/admin/products", `{"game_id":1,"name":"60 UC"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"base_price"}, decode(t, rec)["fields"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateValidation(t *testing.T) {
	e, _ := newAdminEcho(t)
	rec := send(e, http.MethodPost, "/admin/products/bulk-update", `{"productIds":[],"operation":"double","value":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ElementsMatch(t, []interface{}{"productIds", "operation"}, decode(t, rec)["fields"])
}

func TestCreateOfferValidation(t *testing.T) {
	e, mock := newAdminEcho(t)
	rec := send(e, http.MethodPost, "/admin/offers", `{
		"game_id": 1, "name": "Too good", "offer_type": "percentage", "discount_value": 120,
		"start_date": "2026-06-10", "end_date": "2026-06-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"discount_value", "end_date"}, decode(t, rec)["fields"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus(t *testing.T) {
	e, mock := newAdminEcho(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("completed"))
	mock.ExpectRollback()

	rec := send(e, http.MethodPost, "/admin/orders/update", `{"orderId":3,"status":"pending"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())

	rec = send(e, http.MethodPost, "/admin/orders/update", `{"orderId":3,"status":"shipped"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

var (
	selectGame     = regexp.QuoteMeta("FROM games WHERE id = ?")
	selectPack     = regexp.QuoteMeta("FROM special_packs sp JOIN games g ON g.id = sp.game_id WHERE sp.id = ?")
	selectItems    = `FROM pack_products pp\s+JOIN products p`
	countInGame    = regexp.QuoteMeta("SELECT COUNT(*) FROM products WHERE game_id = ? AND id IN (")
	lockPack       = regexp.QuoteMeta("SELECT id FROM special_packs WHERE id = ? FOR UPDATE")
	gameCols       = []string{"id", "name", "slug", "description", "thumbnail_url", "category", "status", "created_at", "updated_at"}
	packCols       = []string{"id", "game_id", "game_name", "name", "description", "image_url", "original_price", "pack_price", "discount_percentage", "status", "created_at", "updated_at", "product_count"}
	packItemCols   = []string{"product_id", "name", "base_price"}
	mysqlUnknownFK = &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails"}
)

func gameRow(id uint64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(gameCols).AddRow(id, "PUBG Mobile", "pubg-mobile", nil, nil, nil, "active", now, now)
}

func packRow(id uint64, original, pack, discount string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(packCols).
		AddRow(id, 1, "PUBG Mobile", "Starter", nil, nil, original, pack, discount, "active", now, now, 0)
}

func expectPack(mock sqlmock.Sqlmock, id uint64, original, pack, discount string) {
	mock.ExpectQuery(selectPack).WithArgs(id).WillReturnRows(packRow(id, original, pack, discount))
	mock.ExpectQuery(selectItems).WithArgs(id).WillReturnRows(sqlmock.NewRows(packItemCols))
}

const offerBody = `{"game_id":1,"name":"Weekend","offer_type":"percentage","discount_value":10,
	"start_date":"2026-06-01","end_date":"2026-06-10","product_ids":[999]}`

func TestCreateOfferRejectsProductsOutsideGame(t *testing.T) {
	e, mock := newAdminEcho(t)
	mock.ExpectQuery(selectGame).WithArgs(1).WillReturnRows(gameRow(1))
	mock.ExpectQuery(countInGame).WithArgs(1, 999).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	rec := send(e, http.MethodPost, "/admin/offers", offerBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"product_ids"}, decode(t, rec)["fields"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A product deleted between the ownership check and the insert surfaces as
// a foreign key failure, which still reads as a bad product list.
func TestCreateOfferForeignKeyFailure(t *testing.T) {
	e, mock := newAdminEcho(t)
	mock.ExpectQuery(selectGame).WithArgs(1).WillReturnRows(gameRow(1))
	mock.ExpectQuery(countInGame).WithArgs(1, 999).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO offers").WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO offer_products").WithArgs(4, 999).WillReturnError(mysqlUnknownFK)
	mock.ExpectRollback()

	rec := send(e, http.MethodPost, "/admin/offers", offerBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"product_ids"}, decode(t, rec)["fields"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePackRecomputesDiscountFromStoredPrice(t *testing.T) {
	e, mock := newAdminEcho(t)
	discount := model.PackDiscount(decimal.RequireFromString("10.00"), decimal.NewFromInt(8)).String()

	expectPack(mock, 5, "10.00", "9.00", "10.00")
	mock.ExpectBegin()
	mock.ExpectQuery(lockPack).WithArgs(5).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("UPDATE special_packs").
		WithArgs(nil, nil, nil, nil, "8", discount, nil, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectPack(mock, 5, "10.00", "8.00", discount)

	rec := send(e, http.MethodPut, "/admin/packs/5", `{"pack_price":8}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 20.0, decode(t, rec)["discount_percentage"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePackRejectsPriceAboveStoredOriginal(t *testing.T) {
	e, mock := newAdminEcho(t)
	expectPack(mock, 5, "10.00", "9.00", "10.00")

	rec := send(e, http.MethodPut, "/admin/packs/5", `{"pack_price":12}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"pack_price"}, decode(t, rec)["fields"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePackChecksProductsAgainstPackGame(t *testing.T) {
	e, mock := newAdminEcho(t)
	expectPack(mock, 5, "10.00", "9.00", "10.00")
	mock.ExpectQuery(countInGame).WithArgs(1, 7, 8).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	rec := send(e, http.MethodPut, "/admin/packs/5", `{"product_ids":[7,8,8]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []interface{}{"product_ids"}, decode(t, rec)["fields"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePackDerivesDiscount(t *testing.T) {
	e, mock := newAdminEcho(t)
	mock.ExpectQuery(selectGame).WithArgs(1).WillReturnRows(gameRow(1))
	mock.ExpectQuery(countInGame).WithArgs(1, 7).WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO special_packs").
		WithArgs(1, "Starter", nil, nil, "10", "7.5", "25").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pack_products (pack_id, product_id) VALUES (?, ?)")).
		WithArgs(9, 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectPack(mock, 9, "10.00", "7.50", "25.00")

	rec := send(e, http.MethodPost, "/admin/packs",
		`{"game_id":1,"name":"Starter","original_price":10,"pack_price":7.5,"product_ids":[7]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 25.0, decode(t, rec)["discount_percentage"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePackNotFound(t *testing.T) {
	e, mock := newAdminEcho(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM special_packs WHERE id = ?")).WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := send(e, http.MethodDelete, "/admin/packs/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
