package corebanking

import (
	"time"

	"github.com/shopspring/decimal"
)

type accountJSON struct {
	AccountNo string `json:"accountNo"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	GLNumber  string `json:"glNumber"`
}

type balanceJSON struct {
	AccountCcy                string              `json:"accountCcy"`
	PreviousDayOpeningBalance decimal.Decimal     `json:"previousDayOpeningBalance"`
	TodayCredits              decimal.Decimal     `json:"todayCredits"`
	TodayDebits               decimal.Decimal     `json:"todayDebits"`
	ComputedBalance           decimal.NullDecimal `json:"computedBalance"`
	AvailableBalance          decimal.NullDecimal `json:"availableBalance"`
	AvailableBalanceLcy       decimal.Decimal     `json:"availableBalanceLcy"`
	WAE                       decimal.NullDecimal `json:"wae"`
}

type classificationJSON struct {
	IsOverdraftAccount bool  `json:"isOverdraftAccount"`
	IsAssetAccount     *bool `json:"isAssetAccount"`
}

type rateJSON struct {
	MidRate     decimal.Decimal `json:"midRate"`
	BuyingRate  decimal.Decimal `json:"buyingRate"`
	SellingRate decimal.Decimal `json:"sellingRate"`
	PublishedAt *time.Time      `json:"publishedAt"`
}

type lineJSON struct {
	AccountNo    string          `json:"accountNo"`
	DrCrFlag     string          `json:"drCrFlag"`
	TranCcy      string          `json:"tranCcy"`
	FcyAmt       decimal.Decimal `json:"fcyAmt"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	LcyAmt       decimal.Decimal `json:"lcyAmt"`
	Memo         string          `json:"memo,omitempty"`
}

type createTransactionJSON struct {
	ValueDate string     `json:"valueDate"`
	Narration string     `json:"narration"`
	Lines     []lineJSON `json:"lines"`
}

type transactionJSON struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
