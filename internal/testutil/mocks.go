package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/moneysuperhero/money-super-hero-backend/internal/domain"
	"github.com/moneysuperhero/money-super-hero-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[string]*domain.User
	NextID   int32
	CreateFn func(user *domain.User) (*domain.User, error)
	GetFn    func(email string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[string]*domain.User),
		NextID: 1,
	}
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetFn != nil {
		return m.GetFn(email)
	}
	if user, ok := m.Users[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// ExistsByEmail reports whether a user with email exists
func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.Users[email]
	return ok, nil
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if _, ok := m.Users[user.Email]; ok {
		return nil, domain.ErrUserAlreadyExists
	}
	user.ID = m.NextID
	m.NextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.Users[user.Email] = user
	return user, nil
}

// UpdateName updates the user's names by email
func (m *MockUserRepository) UpdateName(ctx context.Context, email string, firstName, lastName *string) (*domain.User, error) {
	user, ok := m.Users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	return user, nil
}

// UpdatePassword replaces the stored password hash by email
func (m *MockUserRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	user, ok := m.Users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == 0 {
		user.ID = m.NextID
		m.NextID++
	} else if user.ID >= m.NextID {
		m.NextID = user.ID + 1
	}
	m.Users[user.Email] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories  map[int32]*domain.Category
	InUse       map[int32]bool
	NextID      int32
	GetAllCalls int
	GetAllFn    func() ([]*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		InUse:      make(map[int32]bool),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	category.ID = m.NextID
	m.NextID++
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAll retrieves every category ordered by name
func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	m.GetAllCalls++
	if m.GetAllFn != nil {
		return m.GetAllFn()
	}
	result := m.all()
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// List retrieves categories sorted and paginated per query
func (m *MockCategoryRepository) List(ctx context.Context, query *domain.ListQuery) (*domain.CategoryList, error) {
	result := m.all()
	sort.SliceStable(result, func(i, j int) bool {
		var cmp int
		switch query.Sort.Column {
		case domain.SortByName:
			cmp = strings.Compare(result[i].Name, result[j].Name)
		case domain.SortByNotes:
			cmp = strings.Compare(derefString(result[i].Notes), derefString(result[j].Notes))
		default:
			cmp = compareIDs(result[i].ID, result[j].ID)
		}
		return ordered(cmp, compareIDs(result[i].ID, result[j].ID), query.Sort.Direction)
	})
	return &domain.CategoryList{
		Categories: paginate(result, query.Pagination),
		Count:      int64(len(m.Categories)),
	}, nil
}

// Update updates a category's name and notes
func (m *MockCategoryRepository) Update(ctx context.Context, id int32, name string, notes *string) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	category.Name = name
	category.Notes = notes
	return category, nil
}

// Delete removes a category unless it is marked in use
func (m *MockCategoryRepository) Delete(ctx context.Context, id int32) error {
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	if m.InUse[id] {
		return domain.ErrCategoryInUse
	}
	delete(m.Categories, id)
	return nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
}

func (m *MockCategoryRepository) all() []*domain.Category {
	result := make([]*domain.Category, 0, len(m.Categories))
	for _, category := range m.Categories {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MockSubcategoryRepository is a mock implementation of domain.SubcategoryRepository
type MockSubcategoryRepository struct {
	Subcategories      map[int32]*domain.Subcategory
	Categories         *MockCategoryRepository
	InUse              map[int32]bool
	NextID             int32
	GetByCategoryCalls int
	GetByCategoryFn    func(categoryID int32) ([]*domain.Subcategory, error)
}

// NewMockSubcategoryRepository creates a new MockSubcategoryRepository.
// Category names and existence are read from categories.
func NewMockSubcategoryRepository(categories *MockCategoryRepository) *MockSubcategoryRepository {
	return &MockSubcategoryRepository{
		Subcategories: make(map[int32]*domain.Subcategory),
		Categories:    categories,
		InUse:         make(map[int32]bool),
		NextID:        1,
	}
}

// Create creates a new subcategory
func (m *MockSubcategoryRepository) Create(ctx context.Context, subcategory *domain.Subcategory) (*domain.Subcategory, error) {
	category, ok := m.Categories.Categories[subcategory.CategoryID]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	subcategory.ID = m.NextID
	m.NextID++
	subcategory.CategoryName = category.Name
	m.Subcategories[subcategory.ID] = subcategory
	return subcategory, nil
}

// GetByID retrieves a subcategory by ID
func (m *MockSubcategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Subcategory, error) {
	if subcategory, ok := m.Subcategories[id]; ok {
		return subcategory, nil
	}
	return nil, domain.ErrSubcategoryNotFound
}

// GetByCategory retrieves the subcategories of a category ordered by name
func (m *MockSubcategoryRepository) GetByCategory(ctx context.Context, categoryID int32) ([]*domain.Subcategory, error) {
	m.GetByCategoryCalls++
	if m.GetByCategoryFn != nil {
		return m.GetByCategoryFn(categoryID)
	}
	result := make([]*domain.Subcategory, 0)
	for _, subcategory := range m.all() {
		if subcategory.CategoryID == categoryID {
			result = append(result, subcategory)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// List retrieves subcategories sorted and paginated per query
func (m *MockSubcategoryRepository) List(ctx context.Context, query *domain.ListQuery) (*domain.SubcategoryList, error) {
	result := m.all()
	sort.SliceStable(result, func(i, j int) bool {
		var cmp int
		switch query.Sort.Column {
		case domain.SortByName:
			cmp = strings.Compare(result[i].Name, result[j].Name)
		case domain.SortByNotes:
			cmp = strings.Compare(derefString(result[i].Notes), derefString(result[j].Notes))
		case domain.SortByCategoryID:
			cmp = compareIDs(result[i].CategoryID, result[j].CategoryID)
		case domain.SortByCategoryName:
			cmp = strings.Compare(result[i].CategoryName, result[j].CategoryName)
		default:
			cmp = compareIDs(result[i].ID, result[j].ID)
		}
		return ordered(cmp, compareIDs(result[i].ID, result[j].ID), query.Sort.Direction)
	})
	return &domain.SubcategoryList{
		Subcategories: paginate(result, query.Pagination),
		Count:         int64(len(m.Subcategories)),
	}, nil
}

// Update updates a subcategory's name and notes
func (m *MockSubcategoryRepository) Update(ctx context.Context, id int32, name string, notes *string) (*domain.Subcategory, error) {
	subcategory, ok := m.Subcategories[id]
	if !ok {
		return nil, domain.ErrSubcategoryNotFound
	}
	subcategory.Name = name
	subcategory.Notes = notes
	return subcategory, nil
}

// Delete removes a subcategory unless it is marked in use
func (m *MockSubcategoryRepository) Delete(ctx context.Context, id int32) error {
	if _, ok := m.Subcategories[id]; !ok {
		return domain.ErrSubcategoryNotFound
	}
	if m.InUse[id] {
		return domain.ErrSubcategoryInUse
	}
	delete(m.Subcategories, id)
	return nil
}

// AddSubcategory adds a subcategory to the mock repository (helper for tests)
func (m *MockSubcategoryRepository) AddSubcategory(subcategory *domain.Subcategory) {
	if category, ok := m.Categories.Categories[subcategory.CategoryID]; ok {
		subcategory.CategoryName = category.Name
	}
	m.Subcategories[subcategory.ID] = subcategory
	if subcategory.ID >= m.NextID {
		m.NextID = subcategory.ID + 1
	}
}

func (m *MockSubcategoryRepository) all() []*domain.Subcategory {
	result := make([]*domain.Subcategory, 0, len(m.Subcategories))
	for _, subcategory := range m.Subcategories {
		result = append(result, subcategory)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// MockTransactionRepository is an in-memory implementation of
// domain.TransactionRepository that filters, sorts and paginates like the store.
type MockTransactionRepository struct {
	Transactions     map[int32]*domain.Transaction
	CategoryNames    map[int32]string
	SubcategoryNames map[int32]string
	NextID           int32
	SummarizeCalls   int
	ListCalls        int
	LastQuery        *domain.TransactionQuery
	SummarizeFn      func(userID int32, query *domain.TransactionQuery) (*domain.TransactionSummary, error)
	ListFn           func(userID int32, query *domain.TransactionQuery) ([]*domain.TransactionRow, error)
	CreateFn         func(userID int32, data *domain.TransactionData) (*domain.Transaction, error)
	DeleteFn         func(userID int32, id int32) (*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions:     make(map[int32]*domain.Transaction),
		CategoryNames:    make(map[int32]string),
		SubcategoryNames: make(map[int32]string),
		NextID:           1,
	}
}

// Create inserts a transaction owned by userID
func (m *MockTransactionRepository) Create(ctx context.Context, userID int32, data *domain.TransactionData) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(userID, data)
	}
	timestamp := time.Now().UTC()
	if data.Timestamp != nil {
		timestamp = *data.Timestamp
	}
	transaction := &domain.Transaction{
		ID:            m.NextID,
		UserID:        userID,
		Timestamp:     timestamp,
		Amount:        data.Amount,
		Direction:     data.Direction,
		CategoryID:    data.CategoryID,
		SubcategoryID: data.SubcategoryID,
		Notes:         data.Notes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.NextID++
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction owned by userID
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID int32, id int32) (*domain.TransactionRow, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return m.toRow(transaction), nil
}

// Summarize counts and averages the user's rows in the query's date scope
func (m *MockTransactionRepository) Summarize(ctx context.Context, userID int32, query *domain.TransactionQuery) (*domain.TransactionSummary, error) {
	m.SummarizeCalls++
	m.LastQuery = query
	if m.SummarizeFn != nil {
		return m.SummarizeFn(userID, query)
	}

	scoped := m.scope(userID, query.DateRange)
	summary := &domain.TransactionSummary{Count: int64(len(scoped)), Average: decimal.Zero}
	if len(scoped) > 0 {
		sum := decimal.Zero
		for _, transaction := range scoped {
			sum = sum.Add(transaction.Amount)
		}
		summary.Average = sum.Div(decimal.NewFromInt(int64(len(scoped))))
	}
	return summary, nil
}

// List returns the user's rows in scope, sorted and paginated
func (m *MockTransactionRepository) List(ctx context.Context, userID int32, query *domain.TransactionQuery) ([]*domain.TransactionRow, error) {
	m.ListCalls++
	m.LastQuery = query
	if m.ListFn != nil {
		return m.ListFn(userID, query)
	}

	scoped := m.scope(userID, query.DateRange)
	rows := make([]*domain.TransactionRow, 0, len(scoped))
	for _, transaction := range scoped {
		rows = append(rows, m.toRow(transaction))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		cmp := compareRows(rows[i], rows[j], query.Sort.Column)
		return ordered(cmp, compareIDs(rows[i].ID, rows[j].ID), query.Sort.Direction)
	})

	return paginate(rows, query.Pagination), nil
}

// Update replaces the mutable fields of a transaction owned by userID
func (m *MockTransactionRepository) Update(ctx context.Context, userID int32, id int32, data *domain.TransactionData) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.Amount = data.Amount
	transaction.Direction = data.Direction
	transaction.CategoryID = data.CategoryID
	transaction.SubcategoryID = data.SubcategoryID
	transaction.Notes = data.Notes
	if data.Timestamp != nil {
		transaction.Timestamp = *data.Timestamp
	}
	transaction.UpdatedAt = time.Now()
	return transaction, nil
}

// Delete removes a transaction owned by userID
func (m *MockTransactionRepository) Delete(ctx context.Context, userID int32, id int32) (*domain.Transaction, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(userID, id)
	}
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	return transaction, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
	}
	if transaction.Direction == "" {
		transaction.Direction = domain.DirectionIn
	}
	m.Transactions[transaction.ID] = transaction
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
}

func (m *MockTransactionRepository) scope(userID int32, dateRange *domain.DateRange) []*domain.Transaction {
	result := make([]*domain.Transaction, 0)
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if dateRange != nil && (transaction.Timestamp.Before(dateRange.From) || transaction.Timestamp.After(dateRange.To)) {
			continue
		}
		result = append(result, transaction)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *MockTransactionRepository) toRow(t *domain.Transaction) *domain.TransactionRow {
	row := &domain.TransactionRow{
		ID:            t.ID,
		Amount:        t.Amount,
		Direction:     t.Direction,
		CategoryID:    t.CategoryID,
		SubcategoryID: t.SubcategoryID,
		Notes:         t.Notes,
		Timestamp:     t.Timestamp,
	}
	if t.CategoryID != nil {
		if name, ok := m.CategoryNames[*t.CategoryID]; ok {
			row.CategoryName = &name
		}
	}
	if t.SubcategoryID != nil {
		if name, ok := m.SubcategoryNames[*t.SubcategoryID]; ok {
			row.SubcategoryName = &name
		}
	}
	return row
}

func compareRows(a, b *domain.TransactionRow, column domain.SortColumn) int {
	switch column {
	case domain.SortByAmount:
		return a.Amount.Cmp(b.Amount)
	case domain.SortByDirection:
		return strings.Compare(string(a.Direction), string(b.Direction))
	case domain.SortByCategory:
		return strings.Compare(derefString(a.CategoryName), derefString(b.CategoryName))
	case domain.SortBySubcategory:
		return strings.Compare(derefString(a.SubcategoryName), derefString(b.SubcategoryName))
	case domain.SortByNotes:
		return strings.Compare(derefString(a.Notes), derefString(b.Notes))
	case domain.SortByTimestamp:
		return a.Timestamp.Compare(b.Timestamp)
	default:
		return compareIDs(a.ID, b.ID)
	}
}

func compareIDs(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ordered applies direction to cmp and breaks ties ascending on id
func ordered(cmp, idCmp int, direction domain.SortDirection) bool {
	if cmp == 0 {
		return idCmp < 0
	}
	if direction == domain.SortDesc {
		return cmp > 0
	}
	return cmp < 0
}

func paginate[T any](items []T, p *domain.Pagination) []T {
	if p == nil {
		return items
	}
	offset := p.Offset()
	if offset >= int64(len(items)) {
		return []T{}
	}
	end := offset + int64(p.Limit)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[offset:end]
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	UserEvents   map[int32][]string
	GlobalEvents []string
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{UserEvents: make(map[int32][]string)}
}

// Publish records an event for userID
func (m *MockEventPublisher) Publish(userID int32, event websocket.Event) {
	m.UserEvents[userID] = append(m.UserEvents[userID], event.Type)
}

// PublishAll records a global event
func (m *MockEventPublisher) PublishAll(event websocket.Event) {
	m.GlobalEvents = append(m.GlobalEvents, event.Type)
}
