// Package pricing computes resale estimates for devices submitted through the
// sell flow. Estimate is pure; the same attributes and year always produce the
// same price.
package pricing

import (
	"math"
	"time"
)

// Attributes are the inputs that influence an estimate. String fields are
// matched exactly against the tables below.
type Attributes struct {
	Brand           string
	Year            int
	Condition       string
	RAM             string
	StorageType     string
	StorageSize     int
	ChargerIncluded bool
	OriginalBox     bool
}

// BrandRange is the base price and clamp range for a brand.
type BrandRange struct {
	Base int
	Min  int
	Max  int
}

var brandRanges = map[string]BrandRange{
	"Apple":   {Base: 35000, Min: 5000, Max: 200000},
	"Dell":    {Base: 18000, Min: 3000, Max: 120000},
	"HP":      {Base: 15000, Min: 2500, Max: 100000},
	"Lenovo":  {Base: 16000, Min: 2800, Max: 110000},
	"Asus":    {Base: 14000, Min: 2600, Max: 95000},
	"Acer":    {Base: 12000, Min: 2200, Max: 80000},
	"MSI":     {Base: 20000, Min: 4000, Max: 150000},
	"Samsung": {Base: 17000, Min: 3000, Max: 100000},
	"Toshiba": {Base: 8000, Min: 1500, Max: 40000},
	"Sony":    {Base: 10000, Min: 1800, Max: 60000},
	"Compaq":  {Base: 5000, Min: 800, Max: 20000},
	"IBM":     {Base: 6000, Min: 1000, Max: 25000},
	"Other":   {Base: 8000, Min: 1000, Max: 50000},
}

// DefaultBrandRange applies to brands missing from the table.
var DefaultBrandRange = BrandRange{Base: 8000, Min: 1000, Max: 40000}

var conditionMultipliers = map[string]float64{
	"Like New - No signs of use":               1.0,
	"Excellent - Minor cosmetic wear":          0.85,
	"Very Good - Light scratches":              0.75,
	"Good - Visible wear but fully functional": 0.6,
	"Fair - Significant wear, works well":      0.45,
	"Poor - Major issues but working":          0.25,
	"For Parts - Not working":                  0.1,
}

const defaultConditionMultiplier = 0.5

var ramBonuses = map[string]int{
	"4GB":  1000,
	"8GB":  2500,
	"16GB": 5000,
	"32GB": 10000,
	"64GB": 15000,
}

var storageTypeBonuses = map[string]int{
	"ssd":  2000,
	"nvme": 3500,
}

const (
	maxDepreciation     = 0.8
	depreciationPerYear = 0.12
	storageTier1Size    = 512
	storageTier1Bonus   = 3000
	storageTier2Size    = 1000
	storageTier2Bonus   = 5000
	chargerBonus        = 500
	originalBoxBonus    = 300
	roundingIncrement   = 500
)

// RangeFor returns the price range used for brand.
func RangeFor(brand string) BrandRange {
	if r, ok := brandRanges[brand]; ok {
		return r
	}
	return DefaultBrandRange
}

// Brands lists every brand with a dedicated range.
func Brands() []string {
	brands := make([]string, 0, len(brandRanges))
	for b := range brandRanges {
		brands = append(brands, b)
	}
	return brands
}

// Conditions lists every recognised condition label.
func Conditions() []string {
	conditions := make([]string, 0, len(conditionMultipliers))
	for c := range conditionMultipliers {
		conditions = append(conditions, c)
	}
	return conditions
}

// Estimate returns the resale price in whole rupees for attrs as of
// currentYear. The result is always a multiple of 500 inside the brand range.
func Estimate(attrs Attributes, currentYear int) int {
	r := RangeFor(attrs.Brand)

	age := 0
	if attrs.Year > 0 && attrs.Year <= currentYear {
		age = currentYear - attrs.Year
	}
	depreciation := math.Min(maxDepreciation, float64(age)*depreciationPerYear)
	price := float64(r.Base) * (1 - depreciation)

	multiplier, ok := conditionMultipliers[attrs.Condition]
	if !ok {
		multiplier = defaultConditionMultiplier
	}
	price *= multiplier

	price += float64(ramBonuses[attrs.RAM])
	price += float64(storageTypeBonuses[attrs.StorageType])

	if attrs.StorageSize >= storageTier1Size {
		price += storageTier1Bonus
	}
	if attrs.StorageSize >= storageTier2Size {
		price += storageTier2Bonus
	}

	if attrs.ChargerIncluded {
		price += chargerBonus
	}
	if attrs.OriginalBox {
		price += originalBoxBonus
	}

	price = math.Max(float64(r.Min), math.Min(float64(r.Max), price))

	// math.Round rounds half away from zero, so 250 over a multiple goes up.
	rounded := int(math.Round(price/roundingIncrement) * roundingIncrement)

	// Some minimums are not multiples of 500; stay inside the range.
	if rounded < r.Min {
		rounded += roundingIncrement
	}
	if rounded > r.Max {
		rounded -= roundingIncrement
	}
	return rounded
}

// Estimator binds Estimate to a clock.
type Estimator struct {
	now func() time.Time
}

// NewEstimator returns an Estimator reading the year from now. A nil now uses
// time.Now.
func NewEstimator(now func() time.Time) *Estimator {
	if now == nil {
		now = time.Now
	}
	return &Estimator{now: now}
}

// Estimate prices attrs against the current year.
func (e *Estimator) Estimate(attrs Attributes) int {
	return Estimate(attrs, e.now().Year())
}
