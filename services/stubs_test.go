package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(false),
		gecho.WithLogLevel(gecho.ParseLogLevel("error")),
	))
}

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{PublicURL: "http://localhost:8181"},
		Auth: &structs.AuthConfig{
			AccessTokenSecret:       "access_secret",
			AccessTokenExpiry:       time.Hour,
			RegistrationTokenSecret: "registration_secret",
			RegistrationTokenExpiry: 5 * time.Minute,
			AdminRole:               "ADMIN",
			DefaultRole:             "USER",
		},
		Orders: &structs.OrdersConfig{},
		Email:  &structs.EmailConfig{},
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// catalogState is the in-memory content of the catalog tables
type catalogState struct {
	products map[int]*tables.Product
	images   map[int]*tables.ProductImage
	sizes    map[int]*tables.ProductSize
	nextID   int
}

func (s *catalogState) clone() *catalogState {
	out := &catalogState{
		products: make(map[int]*tables.Product, len(s.products)),
		images:   make(map[int]*tables.ProductImage, len(s.images)),
		sizes:    make(map[int]*tables.ProductSize, len(s.sizes)),
		nextID:   s.nextID,
	}
	for id, p := range s.products {
		c := *p
		out.products[id] = &c
	}
	for id, img := range s.images {
		c := *img
		out.images[id] = &c
	}
	for id, size := range s.sizes {
		c := *size
		out.sizes[id] = &c
	}
	return out
}

func (s *catalogState) id() int {
	s.nextID++
	return s.nextID
}

// stubCatalog implements database.CatalogStore. A transaction works on a copy of the state
// that replaces the committed state only when fn returns nil.
type stubCatalog struct {
	mu    sync.Mutex
	state *catalogState

	failInsertImage error
	// locks records every row lock taken, "product:<id>" or "image:<id>"
	locks []string
	// beforeImageLock runs inside the transaction right before LockImage
	beforeImageLock func(s *catalogState)
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{state: &catalogState{
		products: map[int]*tables.Product{},
		images:   map[int]*tables.ProductImage{},
		sizes:    map[int]*tables.ProductSize{},
		nextID:   100,
	}}
}

func (c *stubCatalog) addProduct(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.products[id] = &tables.Product{ID: id, Name: fmt.Sprintf("product %d", id), Price: 1000}
}

func (c *stubCatalog) product(id int) *tables.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.state.products[id]
	if !ok {
		return nil
	}
	out := *p
	return &out
}

func (c *stubCatalog) image(id int) *tables.ProductImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.state.images[id]
	if !ok {
		return nil
	}
	out := *img
	return &out
}

func (c *stubCatalog) imageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.images)
}

func (c *stubCatalog) WithinTx(ctx context.Context, fn func(tx database.CatalogTx) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	work := c.state.clone()
	tx := &stubCatalogTx{s: work, failInsertImage: c.failInsertImage, locks: &c.locks, beforeImageLock: c.beforeImageLock}
	if err := fn(tx); err != nil {
		return err
	}
	c.state = work
	return nil
}

func (c *stubCatalog) GetProduct(ctx context.Context, id int) (*tables.Product, error) {
	if p := c.product(id); p != nil {
		return p, nil
	}
	return nil, lib.ErrNotFound
}

func (c *stubCatalog) ListProducts(ctx context.Context, filter structs.ProductFilter) ([]tables.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []tables.Product
	for _, p := range c.state.products {
		if filter.ProductID != nil && p.ID != *filter.ProductID {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *stubCatalog) GetImage(ctx context.Context, id int) (*tables.ProductImage, error) {
	if img := c.image(id); img != nil {
		return img, nil
	}
	return nil, lib.ErrNotFound
}

func (c *stubCatalog) ListImages(ctx context.Context, productID *int) ([]tables.ProductImage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []tables.ProductImage
	for _, img := range c.state.images {
		if productID != nil && (img.ProductID == nil || *img.ProductID != *productID) {
			continue
		}
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *stubCatalog) GetSizeByProduct(ctx context.Context, productID int) (*tables.ProductSize, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, size := range c.state.sizes {
		if size.ProductID == productID {
			out := *size
			return &out, nil
		}
	}
	return nil, lib.ErrNotFound
}

type stubCatalogTx struct {
	s               *catalogState
	failInsertImage error
	locks           *[]string
	beforeImageLock func(s *catalogState)
}

func (t *stubCatalogTx) LockProduct(ctx context.Context, id int) (*tables.Product, error) {
	*t.locks = append(*t.locks, fmt.Sprintf("product:%d", id))
	p, ok := t.s.products[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (t *stubCatalogTx) GetImage(ctx context.Context, id int) (*tables.ProductImage, error) {
	img, ok := t.s.images[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	out := *img
	return &out, nil
}

func (t *stubCatalogTx) LockImage(ctx context.Context, id int) (*tables.ProductImage, error) {
	if t.beforeImageLock != nil {
		t.beforeImageLock(t.s)
	}
	*t.locks = append(*t.locks, fmt.Sprintf("image:%d", id))
	img, ok := t.s.images[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	out := *img
	return &out, nil
}

func (t *stubCatalogTx) InsertImage(ctx context.Context, img *tables.ProductImage) error {
	if t.failInsertImage != nil {
		return t.failInsertImage
	}
	img.ID = t.s.id()
	c := *img
	t.s.images[img.ID] = &c
	return nil
}

func (t *stubCatalogTx) UpdateImage(ctx context.Context, img *tables.ProductImage) error {
	current, ok := t.s.images[img.ID]
	if !ok {
		return lib.ErrNotFound
	}
	current.ProductID = img.ProductID
	current.Position = img.Position
	return nil
}

func (t *stubCatalogTx) DeleteImage(ctx context.Context, id int) error {
	if _, ok := t.s.images[id]; !ok {
		return lib.ErrNotFound
	}
	delete(t.s.images, id)
	return nil
}

func (t *stubCatalogTx) SetPrimaryImage(ctx context.Context, productID int, imageID *int) error {
	p, ok := t.s.products[productID]
	if !ok {
		return lib.ErrNotFound
	}
	p.PrimaryImageID = imageID
	return nil
}

func (t *stubCatalogTx) DemotePrimaries(ctx context.Context, productID, keepID int) error {
	for _, img := range t.s.images {
		if img.ID == keepID || img.ProductID == nil || *img.ProductID != productID {
			continue
		}
		if img.Position != nil && *img.Position == tables.PrimaryPosition {
			img.Position = nil
		}
	}
	return nil
}

func (t *stubCatalogTx) ClearPrimaryReferences(ctx context.Context, imageID int) error {
	for _, p := range t.s.products {
		if p.PrimaryImageID != nil && *p.PrimaryImageID == imageID {
			p.PrimaryImageID = nil
		}
	}
	return nil
}

func (t *stubCatalogTx) InsertProduct(ctx context.Context, p *tables.Product) error {
	p.ID = t.s.id()
	c := *p
	t.s.products[p.ID] = &c
	return nil
}

func (t *stubCatalogTx) UpdateProduct(ctx context.Context, p *tables.Product) error {
	if _, ok := t.s.products[p.ID]; !ok {
		return lib.ErrNotFound
	}
	c := *p
	t.s.products[p.ID] = &c
	return nil
}

func (t *stubCatalogTx) DeleteProduct(ctx context.Context, id int) error {
	if _, ok := t.s.products[id]; !ok {
		return lib.ErrNotFound
	}
	delete(t.s.products, id)
	return nil
}

func (t *stubCatalogTx) InsertSize(ctx context.Context, size *tables.ProductSize) error {
	size.ID = t.s.id()
	c := *size
	t.s.sizes[size.ID] = &c
	return nil
}

func (t *stubCatalogTx) LockSize(ctx context.Context, id int) (*tables.ProductSize, error) {
	size, ok := t.s.sizes[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	out := *size
	return &out, nil
}

func (t *stubCatalogTx) UpdateSize(ctx context.Context, size *tables.ProductSize) error {
	if _, ok := t.s.sizes[size.ID]; !ok {
		return lib.ErrNotFound
	}
	c := *size
	t.s.sizes[size.ID] = &c
	return nil
}

func (t *stubCatalogTx) SetProductSize(ctx context.Context, productID, sizeID int) error {
	p, ok := t.s.products[productID]
	if !ok {
		return lib.ErrNotFound
	}
	p.SizeID = &sizeID
	return nil
}

// stubBlobs records saved and deleted urls
type stubBlobs struct {
	mu      sync.Mutex
	saved   []string
	deleted []string
	failErr error
}

func (b *stubBlobs) Save(ctx context.Context, data []byte, filename string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return "", b.failErr
	}
	url := fmt.Sprintf("/product_images/%d-%s", len(b.saved)+1, filename)
	b.saved = append(b.saved, url)
	return url, nil
}

func (b *stubBlobs) Delete(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, url)
	return nil
}

func (b *stubBlobs) wasDeleted(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Contains(b.deleted, url)
}

// orderState is the in-memory content of the order tables
type orderState struct {
	orders   map[int]*tables.Order
	items    map[int][]tables.OrderItem
	shipping map[int]*tables.ShippingAddress
	nextID   int
}

func (s *orderState) clone() *orderState {
	out := &orderState{
		orders:   make(map[int]*tables.Order, len(s.orders)),
		items:    make(map[int][]tables.OrderItem, len(s.items)),
		shipping: make(map[int]*tables.ShippingAddress, len(s.shipping)),
		nextID:   s.nextID,
	}
	for id, o := range s.orders {
		c := *o
		out.orders[id] = &c
	}
	for id, items := range s.items {
		out.items[id] = slices.Clone(items)
	}
	for id, sh := range s.shipping {
		c := *sh
		out.shipping[id] = &c
	}
	return out
}

var errStubInsert = errors.New("stub: insert failed")

// stubOrders implements database.OrderStore with the same copy-on-commit transactions as stubCatalog
type stubOrders struct {
	mu    sync.Mutex
	state *orderState

	// failItemAt makes the n-th InsertItem call of a transaction fail, counting from 0
	failItemAt int
	// failItemErr is the driver error of that call, errStubInsert when nil
	failItemErr error
	// productNames resolves product ids for ListItems
	productNames map[int]string
}

func newStubOrders() *stubOrders {
	return &stubOrders{
		state: &orderState{
			orders:   map[int]*tables.Order{},
			items:    map[int][]tables.OrderItem{},
			shipping: map[int]*tables.ShippingAddress{},
		},
		failItemAt:   -1,
		productNames: map[int]string{},
	}
}

func (o *stubOrders) counts() (orders, items, shipping int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, it := range o.state.items {
		items += len(it)
	}
	return len(o.state.orders), items, len(o.state.shipping)
}

func (o *stubOrders) storedItems(orderID int) []tables.OrderItem {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.state.items[orderID])
}

func (o *stubOrders) storedShipping(orderID int) *tables.ShippingAddress {
	o.mu.Lock()
	defer o.mu.Unlock()
	sh, ok := o.state.shipping[orderID]
	if !ok {
		return nil
	}
	out := *sh
	return &out
}

func (o *stubOrders) WithinTx(ctx context.Context, fn func(tx database.OrderTx) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	work := o.state.clone()
	if err := fn(&stubOrderTx{s: work, failItemAt: o.failItemAt, failItemErr: o.failItemErr}); err != nil {
		return err
	}
	o.state = work
	return nil
}

func (o *stubOrders) GetOrder(ctx context.Context, id int) (*tables.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.state.orders[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	out := *order
	return &out, nil
}

func (o *stubOrders) ListOrders(ctx context.Context, filter structs.OrderFilter) ([]tables.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []tables.Order
	for _, order := range o.state.orders {
		if filter.Status != nil && string(order.Status) != *filter.Status {
			continue
		}
		if filter.UserID != nil && (order.UserID == nil || *order.UserID != *filter.UserID) {
			continue
		}
		out = append(out, *order)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (o *stubOrders) ListItems(ctx context.Context, orderID int) ([]tables.OrderItemWithProductName, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var out []tables.OrderItemWithProductName
	for _, it := range o.state.items[orderID] {
		row := tables.OrderItemWithProductName{
			ID:         it.ID,
			Quantity:   it.Quantity,
			Size:       it.Size,
			TotalPrice: it.TotalPrice,
		}
		if it.ProductID != nil {
			if name, ok := o.productNames[*it.ProductID]; ok {
				row.ProductName = &name
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (o *stubOrders) GetShipping(ctx context.Context, orderID int) (*tables.ShippingAddress, error) {
	if sh := o.storedShipping(orderID); sh != nil {
		return sh, nil
	}
	return nil, lib.ErrNotFound
}

func (o *stubOrders) InsertShipping(ctx context.Context, shipping *tables.ShippingAddress) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return (&stubOrderTx{s: o.state, failItemAt: -1}).InsertShipping(ctx, shipping)
}

func (o *stubOrders) UpdateStatus(ctx context.Context, id int, status tables.OrderStatus) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	order, ok := o.state.orders[id]
	if !ok {
		return 0, nil
	}
	order.Status = status
	return 1, nil
}

func (o *stubOrders) DeleteOrder(ctx context.Context, id int) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.state.orders[id]; !ok {
		return 0, nil
	}
	delete(o.state.orders, id)
	delete(o.state.items, id)
	delete(o.state.shipping, id)
	return 1, nil
}

type stubOrderTx struct {
	s           *orderState
	failItemAt  int
	failItemErr error
	inserted    int
}

func (t *stubOrderTx) InsertOrder(ctx context.Context, order *tables.Order) error {
	t.s.nextID++
	order.ID = t.s.nextID
	c := *order
	t.s.orders[order.ID] = &c
	return nil
}

func (t *stubOrderTx) InsertItem(ctx context.Context, item *tables.OrderItem) error {
	if t.inserted == t.failItemAt {
		if t.failItemErr != nil {
			return lib.MapPgError(t.failItemErr)
		}
		return lib.MapPgError(errStubInsert)
	}
	t.inserted++
	if _, ok := t.s.orders[item.OrderID]; !ok {
		return lib.ErrBadRequest
	}
	if item.TotalPrice != int64(item.Quantity)*item.Price {
		return lib.Database(errors.New("order_items_total_price_check"))
	}
	t.s.nextID++
	item.ID = t.s.nextID
	t.s.items[item.OrderID] = append(t.s.items[item.OrderID], *item)
	return nil
}

func (t *stubOrderTx) InsertShipping(ctx context.Context, shipping *tables.ShippingAddress) error {
	if _, ok := t.s.orders[shipping.OrderID]; !ok {
		return lib.ErrBadRequest
	}
	if _, ok := t.s.shipping[shipping.OrderID]; ok {
		return lib.ErrConflict
	}
	t.s.nextID++
	shipping.ID = t.s.nextID
	c := *shipping
	t.s.shipping[shipping.OrderID] = &c
	return nil
}

// stubMailer counts delivered mails
type stubMailer struct {
	mu       sync.Mutex
	orders   []int
	links    []string
	sent     chan int
	failWith error
}

func newStubMailer() *stubMailer {
	return &stubMailer{sent: make(chan int, 16)}
}

func (m *stubMailer) SendOrderDetails(ctx context.Context, details *tables.OrderDetails) error {
	m.mu.Lock()
	m.orders = append(m.orders, details.OrderID)
	m.mu.Unlock()
	m.sent <- details.OrderID
	return m.failWith
}

func (m *stubMailer) SendRegistrationLink(ctx context.Context, email, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.links = append(m.links, link)
	return nil
}

func (m *stubMailer) lastLink() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}

// stubUsers implements database.UserStore
type stubUsers struct {
	mu     sync.Mutex
	users  map[int]*tables.User
	nextID int
	err    error
}

func newStubUsers() *stubUsers {
	return &stubUsers{users: map[int]*tables.User{}}
}

func (u *stubUsers) setRole(id int, role *string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if user, ok := u.users[id]; ok {
		user.Role = role
		return
	}
	u.users[id] = &tables.User{ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("user%d@example.com", id), Role: role}
}

func (u *stubUsers) GetUserRole(ctx context.Context, userID int) (*string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return nil, u.err
	}
	user, ok := u.users[userID]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return user.Role, nil
}

func (u *stubUsers) GetUserByID(ctx context.Context, id int) (*tables.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (u *stubUsers) GetUserByEmail(ctx context.Context, email string) (*tables.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, lib.ErrNotFound
}

func (u *stubUsers) InsertUser(ctx context.Context, user *tables.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.users {
		if existing.Email == user.Email {
			return lib.ErrEmailTaken
		}
		if existing.Username == user.Username {
			return lib.ErrUsernameTaken
		}
	}
	u.nextID++
	user.ID = u.nextID
	c := *user
	u.users[user.ID] = &c
	return nil
}

func (u *stubUsers) UpdateProfile(ctx context.Context, id int, req *structs.UpdateProfileRequest) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return lib.ErrNotFound
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	return nil
}

func (u *stubUsers) UpdatePasswordHash(ctx context.Context, id int, hash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.users[id]
	if !ok {
		return lib.ErrNotFound
	}
	user.PasswordHash = hash
	return nil
}
