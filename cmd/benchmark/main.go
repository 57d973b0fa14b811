package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joripage/limitbook/pkg/orderbook"
)

const (
	numOrders = 1_000_000
	minPrice  = 10000 // cents
	maxPrice  = 20000
	minQty    = 1
	maxQty    = 100
)

type order struct {
	id    string
	side  orderbook.Side
	price decimal.Decimal
	qty   decimal.Decimal
}

func randomOrder(id int) order {
	side := orderbook.BUY
	if rand.Intn(2) == 0 {
		side = orderbook.SELL
	}
	cents := int64(rand.Intn(maxPrice-minPrice+1) + minPrice)
	qty := int64(rand.Intn(maxQty-minQty+1) + minQty)

	return order{
		id:    fmt.Sprintf("ORD-%06d", id),
		side:  side,
		price: decimal.New(cents, -2),
		qty:   decimal.NewFromInt(qty),
	}
}

func main() {
	rand.Seed(time.Now().UnixNano())

	book := orderbook.New()
	totalMatched := 0
	totalQty := decimal.Zero

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		o := randomOrder(i + 1)
		trades, err := book.ProcessLimitOrder(o.id, o.side, o.price, o.qty)
		if err != nil {
			panic(err)
		}
		for _, tr := range trades {
			totalMatched++
			totalQty = totalQty.Add(tr.Qty)
		}
	}

	elapsed := time.Since(start)

	fmt.Println("--------")
	fmt.Printf("Total Orders     : %d\n", numOrders)
	fmt.Printf("Total Matches    : %d\n", totalMatched)
	fmt.Printf("Total Matched Qty: %s\n", totalQty)
	fmt.Printf("Time Taken       : %s\n", elapsed)
	fmt.Printf("Orders/sec       : %.0f\n", float64(numOrders)/elapsed.Seconds())
}
