package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/metrics"
	"github.com/SinghAman21/spendsplit/internal/models"
	"github.com/SinghAman21/spendsplit/internal/money"
	"github.com/SinghAman21/spendsplit/internal/parser"
	"github.com/SinghAman21/spendsplit/internal/storage"
)

// ExpenseService serves expense listing and creation, including the
// AI-parsed free-text path.
type ExpenseService struct {
	store  storage.Store
	parser *parser.Client
	cache  *cache.Cache
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, p *parser.Client, c *cache.Cache) *ExpenseService {
	return &ExpenseService{store: store, parser: p, cache: c}
}

// ExpenseResponse mirrors the original API's expense shape, payer embedded.
type ExpenseResponse struct {
	ID          string       `json:"id"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Payer       UserResponse `json:"payer"`
	CreatedAt   string       `json:"created_at"`
}

// ListExpenses handles GET /api/groups/:id/expenses.
func (s *ExpenseService) ListExpenses(c *gin.Context) {
	groupID := c.Param("id")
	if _, err := s.store.GetGroup(c.Request.Context(), groupID); err != nil {
		respondError(c, err)
		return
	}

	expenses, err := s.store.ListGroupExpenses(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	// One lookup for all payers instead of a query per expense.
	payerIDs := make([]string, 0, len(expenses))
	for _, e := range expenses {
		payerIDs = append(payerIDs, e.PayerID)
	}
	payers, err := s.store.GetUsersByIDs(c.Request.Context(), payerIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		er := ExpenseResponse{
			ID:          e.ID,
			Amount:      e.Amount.Float64(),
			Description: e.Description,
			Category:    e.Category,
			CreatedAt:   isoTime(e.CreatedAt),
		}
		if payer, ok := payers[e.PayerID]; ok {
			er.Payer = toUserResponse(payer)
		}
		resp = append(resp, er)
	}
	c.JSON(http.StatusOK, resp)
}

// CreateExpenseRequest is the POST /api/groups/:id/expenses payload.
// ParticipantIDs defaults to the whole group; the amount is split evenly
// with remainder cents going to the payer.
type CreateExpenseRequest struct {
	PayerID        string   `json:"payer_id" binding:"required"`
	Amount         float64  `json:"amount" binding:"required,gt=0"`
	Description    string   `json:"description" binding:"required"`
	Category       string   `json:"category"`
	ParticipantIDs []string `json:"participant_ids"`
}

// CreateExpense handles POST /api/groups/:id/expenses.
func (s *ExpenseService) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	groupID := c.Param("id")
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		respondError(c, err)
		return
	}

	members, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	memberSet := make(map[string]*models.User, len(members))
	for _, m := range members {
		memberSet[m.ID] = m
	}

	payer, ok := memberSet[req.PayerID]
	if !ok {
		respondError(c, models.ErrPayerNotMember)
		return
	}

	participantIDs := req.ParticipantIDs
	if len(participantIDs) == 0 {
		for _, m := range members {
			participantIDs = append(participantIDs, m.ID)
		}
	}
	for _, id := range participantIDs {
		if _, ok := memberSet[id]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("participant %s is not a group member", id)})
			return
		}
	}

	amount := money.FromFloat(req.Amount)
	splits, err := evenSplits(amount, req.PayerID, participantIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense := &models.Expense{
		GroupID:     groupID,
		PayerID:     req.PayerID,
		Amount:      amount,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := s.createExpense(ctx, expense, splits, "api"); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseResponse{
		ID:          expense.ID,
		Amount:      expense.Amount.Float64(),
		Description: expense.Description,
		Category:    expense.Category,
		Payer:       toUserResponse(payer),
		CreatedAt:   isoTime(expense.CreatedAt),
	})
}

// CreateExpenseAIRequest is the POST /api/groups/:id/expenses/ai payload.
type CreateExpenseAIRequest struct {
	TextInput string `json:"text_input" binding:"required"`
	UserName  string `json:"user_name" binding:"required"`
}

// CreateExpenseAI handles POST /api/groups/:id/expenses/ai: free text goes
// to the parsing service, and the structured result is persisted as one
// expense plus all of its splits in a single transaction. A parse failure
// creates nothing.
func (s *ExpenseService) CreateExpenseAI(c *gin.Context) {
	var req CreateExpenseAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	groupID := c.Param("id")
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		respondError(c, err)
		return
	}

	members, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	byName := make(map[string]*models.User, len(members))
	memberNames := make([]string, 0, len(members))
	for _, m := range members {
		byName[m.Name] = m
		memberNames = append(memberNames, m.Name)
	}

	payer, ok := byName[req.UserName]
	if !ok {
		respondError(c, models.ErrPayerNotMember)
		return
	}

	parsed, err := s.parser.Parse(ctx, req.TextInput, payer.Name, memberNames)
	if err != nil {
		slog.Warn("Expense parsing failed", "group_id", groupID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse"})
		return
	}

	splits, err := splitsFromParsed(parsed, payer, byName, members)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense := &models.Expense{
		GroupID:     groupID,
		PayerID:     payer.ID,
		Amount:      money.FromFloat(parsed.Amount),
		Description: parsed.Description,
		Category:    parsed.Category,
	}
	if err := s.createExpense(ctx, expense, splits, "ai"); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExpenseResponse{
		ID:          expense.ID,
		Amount:      expense.Amount.Float64(),
		Description: expense.Description,
		Category:    expense.Category,
		Payer:       toUserResponse(payer),
		CreatedAt:   isoTime(expense.CreatedAt),
	})
}

func (s *ExpenseService) createExpense(ctx context.Context, expense *models.Expense, splits []models.ExpenseSplit, source string) error {
	if err := s.store.CreateExpense(ctx, expense, splits); err != nil {
		return err
	}
	s.cache.Delete(ctx, analysisCacheKey(expense.GroupID))
	metrics.ExpensesCreated.WithLabelValues(source).Inc()
	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount.String(),
		"source", source,
	)
	return nil
}

// evenSplits partitions amount evenly among participantIDs. The payer's
// share is listed first so remainder cents from uneven division land on the
// payer; when the payer does not participate, the first participant carries
// them.
func evenSplits(amount money.Cents, payerID string, participantIDs []string) ([]models.ExpenseSplit, error) {
	ordered := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		if id == payerID {
			ordered = append([]string{id}, ordered...)
			continue
		}
		ordered = append(ordered, id)
	}

	shares, err := money.SplitEven(amount, len(ordered))
	if err != nil {
		return nil, err
	}

	splits := make([]models.ExpenseSplit, len(ordered))
	for i, id := range ordered {
		splits[i] = models.ExpenseSplit{UserID: id, Owed: shares[i]}
	}
	return splits, nil
}

// splitsFromParsed turns the parser's output into split rows. Explicit
// shares are honored when they partition the amount exactly; otherwise the
// named participants (or the whole group) share evenly.
func splitsFromParsed(parsed *parser.ParsedExpense, payer *models.User, byName map[string]*models.User, members []*models.User) ([]models.ExpenseSplit, error) {
	amount := money.FromFloat(parsed.Amount)

	if len(parsed.Shares) > 0 {
		splits := make([]models.ExpenseSplit, 0, len(parsed.Shares))
		var total money.Cents
		valid := true
		for name, share := range parsed.Shares {
			user, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("participant %q is not a group member", name)
			}
			owed := money.FromFloat(share)
			total += owed
			splits = append(splits, models.ExpenseSplit{UserID: user.ID, Owed: owed})
		}
		if total != amount {
			// The parser's arithmetic is not trusted; fall back to an even
			// split among the same people.
			valid = false
			slog.Warn("Parsed shares do not partition amount, splitting evenly",
				"amount", amount.String(), "shares_total", total.String())
		}
		if valid {
			return splits, nil
		}
		names := make([]string, 0, len(parsed.Shares))
		for name := range parsed.Shares {
			names = append(names, name)
		}
		parsed.Participants = names
	}

	participantIDs := make([]string, 0, len(members))
	if len(parsed.Participants) > 0 {
		for _, name := range parsed.Participants {
			user, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("participant %q is not a group member", name)
			}
			participantIDs = append(participantIDs, user.ID)
		}
	} else {
		for _, m := range members {
			participantIDs = append(participantIDs, m.ID)
		}
	}

	return evenSplits(amount, payer.ID, participantIDs)
}
