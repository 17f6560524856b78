package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-tindahan-pos/internal/database"
	"go-tindahan-pos/internal/inventory"
	"go-tindahan-pos/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a store operator's question using function calling over
// their own inventory and sales data.
func RunAgent(userID uint, userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant built into a sari-sari store POS.

RULES:
1. INVENTORY: If the user asks for the PRICE, STOCK or DETAILS of a product,
   call 'check_inventory' and read the JSON to answer. Do NOT say you cannot
   get the price; you can, by checking inventory.
2. SALES: If the user asks about sales or revenue, use 'get_sales_report'
   with a YYYY-MM-DD date range.
3. RESTOCKING: If the user asks what needs restocking or what is running low,
   use 'low_stock_report'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full inventory list: ID, name, price, stock quantity, reorder level and stock status for every active product.",
				},
				{
					Name:        "get_sales_report",
					Description: "Get total revenue and transaction count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "low_stock_report",
					Description: "List products that are low on stock or out of stock.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_inventory":
				return executeCheckInventory(ctx, session, userID)
			case "get_sales_report":
				return executeSalesReport(ctx, session, userID, funcCall)
			case "low_stock_report":
				return executeLowStockReport(ctx, session, userID)
			}
		}
	}

	return printResponse(resp), nil
}

type agentProduct struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	ReorderLevel int     `json:"reorder_level"`
	Status       string  `json:"status"`
}

func activeProducts(userID uint) ([]agentProduct, error) {
	var products []models.Product
	err := database.DB.Where("user_id = ? AND is_active = ?", userID, true).Find(&products).Error
	if err != nil {
		return nil, err
	}

	list := make([]agentProduct, 0, len(products))
	for _, p := range products {
		list = append(list, agentProduct{
			ID:           p.ID,
			Name:         p.Name,
			Price:        p.Price,
			Stock:        p.StockQuantity,
			ReorderLevel: p.ReorderLevel,
			Status:       string(inventory.Classify(p.StockQuantity, p.ReorderLevel)),
		})
	}
	return list, nil
}

func executeCheckInventory(ctx context.Context, session *genai.ChatSession, userID uint) (string, error) {
	list, err := activeProducts(userID)
	if err != nil {
		return "", err
	}

	jsonBytes, _ := json.Marshal(list)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeLowStockReport(ctx context.Context, session *genai.ChatSession, userID uint) (string, error) {
	list, err := activeProducts(userID)
	if err != nil {
		return "", err
	}

	var flagged []agentProduct
	for _, p := range list {
		if p.Status != string(inventory.StatusIn) {
			flagged = append(flagged, p)
		}
	}

	jsonBytes, _ := json.Marshal(flagged)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "low_stock_report",
		Response: map[string]interface{}{"needs_restock": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, userID uint, funcCall genai.FunctionCall) (string, error) {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format.", nil
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	metrics, err := database.GetSalesMetrics(userID, start, end)
	if err != nil {
		return "Error calculating sales.", nil
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     metrics.TotalRevenue,
			"sales_count": metrics.TransactionCount,
			"avg_sale":    metrics.AvgSale,
		},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
