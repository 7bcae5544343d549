package store

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"

	"askyourdata/models"
)

const syntheticRowCount = 50

var (
	productCategories = []string{"Electronics", "Clothing", "Books", "Food"}
	orderStatuses     = []string{"Pending", "Shipped", "Delivered", "Cancelled"}
)

// GenerateSampleData builds the placeholder rows served for a table that
// was never stored. The output depends only on tableName.
func GenerateSampleData(tableName string) []models.Row {
	h := fnv.New64a()
	h.Write([]byte(tableName))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	name := strings.ToLower(tableName)
	rows := make([]models.Row, 0, syntheticRowCount)
	for i := 1; i <= syntheticRowCount; i++ {
		var row models.Row
		switch {
		case strings.Contains(name, "user"):
			row = models.NewRow(5)
			row.Set("id", models.Integer(int64(i)))
			row.Set("name", models.Text(fmt.Sprintf("User %d", i)))
			row.Set("email", models.Text(fmt.Sprintf("user%d@example.com", i)))
			row.Set("age", models.Integer(int64(20+rng.Intn(40))))
			row.Set("signup_date", randomDate(rng))
		case strings.Contains(name, "product"):
			row = models.NewRow(5)
			row.Set("id", models.Integer(int64(i)))
			row.Set("name", models.Text(fmt.Sprintf("Product %d", i)))
			row.Set("price", models.Float(float64(rng.Intn(100))+0.99))
			row.Set("category", models.Text(productCategories[rng.Intn(len(productCategories))]))
			row.Set("in_stock", models.Bool(rng.Float64() > 0.2))
		case strings.Contains(name, "order"):
			row = models.NewRow(5)
			row.Set("id", models.Integer(int64(i)))
			row.Set("user_id", models.Integer(int64(rng.Intn(50)+1)))
			row.Set("total", models.Float(float64(rng.Intn(200))+10.99))
			row.Set("status", models.Text(orderStatuses[rng.Intn(len(orderStatuses))]))
			row.Set("order_date", randomDate(rng))
		default:
			row = models.NewRow(4)
			row.Set("id", models.Integer(int64(i)))
			row.Set("name", models.Text(fmt.Sprintf("Item %d", i)))
			row.Set("value", models.Integer(int64(rng.Intn(100))))
			row.Set("created_at", randomDate(rng))
		}
		rows = append(rows, row)
	}
	return rows
}

func randomDate(rng *rand.Rand) models.Value {
	return models.Date(fmt.Sprintf("2023-%02d-%02d", rng.Intn(12)+1, rng.Intn(28)+1))
}
