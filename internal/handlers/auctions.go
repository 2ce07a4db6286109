package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Kroz113/JulyCoins/internal/middleware"
	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/services"
)

type createAuctionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MinimumBid  int64     `json:"minimum_bid"`
}

func (h *Handler) CreateAuction(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	auction, err := h.auctionService.Create(r.Context(), services.CreateAuctionRequest{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MinimumBid:  req.MinimumBid,
		CreatedBy:   claims.UserID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.auditLog(r, claims.UserID, "create_auction", "auction", auction.ID, map[string]string{
		"title":       auction.Title,
		"minimum_bid": strconv.FormatInt(auction.MinimumBid, 10),
	})
	respondJSON(w, http.StatusCreated, auction)
}

type auctionResponse struct {
	models.Auction
	Bids       []models.Bid `json:"bids"`
	HighestBid *models.Bid  `json:"highest_bid,omitempty"`
	UserBid    *models.Bid  `json:"user_bid,omitempty"`
}

func (h *Handler) enrichAuction(r *http.Request, auction models.Auction) (auctionResponse, error) {
	resp := auctionResponse{Auction: auction, Bids: []models.Bid{}}
	bids, err := h.bids.ListByAuction(r.Context(), auction.ID)
	if err != nil {
		return resp, err
	}
	if bids != nil {
		resp.Bids = bids
	}
	highest, err := h.bids.Highest(r.Context(), auction.ID)
	if err == nil {
		resp.HighestBid = &highest
	} else if !errors.Is(err, sql.ErrNoRows) {
		return resp, err
	}
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if ok && claims.Role == models.RoleStudent {
		userBid, err := h.bids.LatestByUser(r.Context(), auction.ID, claims.UserID)
		if err == nil {
			resp.UserBid = &userBid
		} else if !errors.Is(err, sql.ErrNoRows) {
			return resp, err
		}
	}
	return resp, nil
}

// ListAuctions returns auctions currently open for bidding. Active
// auctions past their window are excluded, not closed.
func (h *Handler) ListAuctions(w http.ResponseWriter, r *http.Request) {
	auctions, err := h.auctions.ListOpen(r.Context(), time.Now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list auctions")
		return
	}
	out := make([]auctionResponse, 0, len(auctions))
	for _, auction := range auctions {
		resp, err := h.enrichAuction(r, auction)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list auctions")
			return
		}
		out = append(out, resp)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) GetAuction(w http.ResponseWriter, r *http.Request) {
	auctionID, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	auction, err := h.auctions.GetByID(r.Context(), auctionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "auction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load auction")
		return
	}
	resp, err := h.enrichAuction(r, auction)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load auction")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) CloseAuction(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	auctionID, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid auction id")
		return
	}
	auction, err := h.auctionService.Close(r.Context(), auctionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.auditLog(r, claims.UserID, "close_auction", "auction", auction.ID, map[string]string{
		"winner_id":   strconv.FormatInt(*auction.WinnerID, 10),
		"winning_bid": strconv.FormatInt(*auction.WinningBid, 10),
	})
	respondJSON(w, http.StatusOK, auction)
}

type placeBidRequest struct {
	AuctionID int64 `json:"auction_id"`
	Amount    int64 `json:"amount"`
}

func (h *Handler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req placeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "bid amount must be positive")
		return
	}
	bid, err := h.auctionService.PlaceBid(r.Context(), req.AuctionID, claims.UserID, req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, bid)
}
