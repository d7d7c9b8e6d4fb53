package order

import (
	"github.com/go-faster/jx"
)

// Order is a priced purchase of a single item by a member. Orders are built
// once by Service.CreateOrder and never re-priced.
type Order struct {
	ID            string
	MemberID      int64
	ItemName      string
	ItemPrice     int64
	DiscountPrice int64
}

// CalculatePrice returns the amount the member pays.
func (o *Order) CalculatePrice() int64 {
	return o.ItemPrice - o.DiscountPrice
}

// Encode writes the order as a JSON object, including the calculated price.
func (o *Order) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("member_id")
	e.Int64(o.MemberID)
	e.FieldStart("item_name")
	e.Str(o.ItemName)
	e.FieldStart("item_price")
	e.Int64(o.ItemPrice)
	e.FieldStart("discount_price")
	e.Int64(o.DiscountPrice)
	e.FieldStart("price")
	e.Int64(o.CalculatePrice())
	e.ObjEnd()
}
