package stock

import "github.com/aglafone/stokpos/internal/inventory"

type itemResponse struct {
	inventory.StockItem

	Level     inventory.Level `json:"level"`
	SellLabel string          `json:"hargaJualLabel"`
}

func toResponse(it inventory.StockItem) itemResponse {
	return itemResponse{
		StockItem: it,
		Level:     inventory.LevelOf(it.Qty),
		SellLabel: inventory.FormatIDR(it.SellPrice),
	}
}

func toResponseList(items []inventory.StockItem) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, it := range items {
		resp[i] = toResponse(it)
	}

	return resp
}
