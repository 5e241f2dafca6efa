//go:build ignore

// Generates the sample price data used by example.tapps.
//
//	go run testdata/generate.go
package main

import (
	"fmt"
	"os"
	"strings"

	"fortio.org/log"
	"github.com/parquet-go/parquet-go"
)

type Price struct {
	Date   string  `parquet:"Date"`
	Open   float64 `parquet:"Open"`
	High   float64 `parquet:"High"`
	Low    float64 `parquet:"Low"`
	Close  float64 `parquet:"Close"`
	Volume int64   `parquet:"Volume"`
}

var prices = []Price{
	{Date: "2/1/2020", Open: 3246.2, High: 3258.1, Low: 3240.5, Close: 3252.6, Volume: 181400},
	{Date: "3/1/2020", Open: 3252.6, High: 3260.4, Low: 3233.9, Close: 3240.3, Volume: 203200},
	{Date: "6/1/2020", Open: 3240.3, High: 3241.0, Low: 3205.7, Close: 3211.9, Volume: 241900},
	{Date: "7/1/2020", Open: 3211.9, High: 3232.6, Low: 3210.4, Close: 3230.4, Volume: 198700},
	{Date: "8/1/2020", Open: 3230.4, High: 3231.2, Low: 3183.6, Close: 3190.8, Volume: 263100},
}

func main() {
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	for _, p := range prices {
		fmt.Fprintf(&b, "%s,%g,%g,%g,%g,%d\n", p.Date, p.Open, p.High, p.Low, p.Close, p.Volume)
	}
	if err := os.WriteFile("STI.csv", []byte(b.String()), 0o644); err != nil {
		log.Fatalf("%v", err)
	}

	file, err := os.Create("STI.parquet")
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Price](file)
	if _, err := writer.Write(prices); err != nil {
		log.Fatalf("%v", err)
	}
	if err := writer.Close(); err != nil {
		log.Fatalf("%v", err)
	}

	log.Infof("Generated STI.csv and STI.parquet with %d rows", len(prices))
}
