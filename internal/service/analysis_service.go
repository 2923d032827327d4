package service

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SinghAman21/spendsplit/internal/cache"
	"github.com/SinghAman21/spendsplit/internal/calculator"
	"github.com/SinghAman21/spendsplit/internal/storage"
)

// analysisCacheTTL bounds staleness of cached analyses; any write to the
// group invalidates eagerly anyway.
const analysisCacheTTL = 30 * time.Second

func analysisCacheKey(groupID string) string {
	return "analysis:" + groupID
}

// AnalysisService serves the fairness analysis endpoint: current-month
// balances and greedy settlement suggestions.
type AnalysisService struct {
	store storage.Store
	cache *cache.Cache
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(store storage.Store, c *cache.Cache) *AnalysisService {
	return &AnalysisService{store: store, cache: c}
}

// SettlementResponse is one suggested payment.
type SettlementResponse struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// MemberDetailResponse carries per-member analysis figures.
type MemberDetailResponse struct {
	Name             string  `json:"name"`
	Balance          float64 `json:"balance"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOwed        float64 `json:"total_owed"`
	TransactionCount int     `json:"transaction_count"`
}

// AnalysisResponse is the GET /api/groups/:id/analysis body.
type AnalysisResponse struct {
	Balances      map[string]float64     `json:"balances"`
	Settlements   []SettlementResponse   `json:"settlements"`
	MemberDetails []MemberDetailResponse `json:"member_details"`
	MinFloor      float64                `json:"min_floor"`
}

// GetAnalysis handles GET /api/groups/:id/analysis. Balances cover the
// current calendar month only; the whole response is a pure function of
// stored data, so repeated calls without intervening writes return
// identical results and may be served from cache.
func (s *AnalysisService) GetAnalysis(c *gin.Context) {
	ctx := c.Request.Context()
	groupID := c.Param("id")

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	key := analysisCacheKey(groupID)
	var cached AnalysisResponse
	if s.cache.Get(ctx, key, &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	members, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	from, to := monthWindow(time.Now())
	paid, err := s.store.SumPaidByMember(ctx, groupID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	owed, err := s.store.SumOwedByMember(ctx, groupID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	counts, err := s.store.CountExpensesByPayer(ctx, groupID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	balances := calculator.ComputeBalances(members, paid, owed)
	settlements := calculator.SuggestSettlements(balances, group.MinFloor)

	resp := AnalysisResponse{
		Balances:      make(map[string]float64, len(balances)),
		Settlements:   make([]SettlementResponse, 0, len(settlements)),
		MemberDetails: make([]MemberDetailResponse, 0, len(balances)),
		MinFloor:      group.MinFloor.Float64(),
	}
	for _, b := range balances {
		resp.Balances[b.Name] = b.NetBalance.Float64()
		resp.MemberDetails = append(resp.MemberDetails, MemberDetailResponse{
			Name:             b.Name,
			Balance:          b.NetBalance.Float64(),
			TotalPaid:        b.TotalPaid.Float64(),
			TotalOwed:        b.TotalOwed.Float64(),
			TransactionCount: counts[b.UserID],
		})
	}
	for _, st := range settlements {
		resp.Settlements = append(resp.Settlements, SettlementResponse{
			From:   st.FromName,
			To:     st.ToName,
			Amount: st.Amount.Float64(),
		})
	}

	s.cache.Set(ctx, key, resp, analysisCacheTTL)
	c.JSON(http.StatusOK, resp)
}
