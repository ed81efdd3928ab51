package handlers

import (
	"net/http"
	"strconv"
)

// listOrders returns the most recent sales order headers
func (r *Router) listOrders(w http.ResponseWriter, req *http.Request) {
	limit := 50
	if raw := req.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	headers, err := r.orders.ListOrders(limit)
	if err != nil {
		respondTypedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"orders": headers})
}

// getOrder returns one order header with its detail rows
func (r *Router) getOrder(w http.ResponseWriter, req *http.Request) {
	orderID, ok := pathID(w, req)
	if !ok {
		return
	}

	header, err := r.orders.GetOrder(orderID)
	if err != nil {
		respondTypedError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, header)
}
