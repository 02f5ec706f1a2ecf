package parsing

import (
	"github.com/jonathan/sustainability-evaluator/internal/llm"
	"github.com/jonathan/sustainability-evaluator/internal/schemas"
	"github.com/jonathan/sustainability-evaluator/internal/types"
)

// ProductInfoSpec requires only the product name key; a page without product
// data yields empty values, which is a valid result.
var ProductInfoSpec = SchemaSpec{
	Name: schemas.ProductInfo,
	Fields: []FieldSpec{
		{Name: "product_name", Kind: KindString, Required: true},
		{Name: "product_description", Kind: KindString},
		{Name: "key_features", Kind: KindArray},
	},
}

// ParseProductInfo parses an extraction reply into ProductInfo.
func ParseProductInfo(reply *llm.ModelReply) (*types.ProductInfo, error) {
	info, err := Parse[types.ProductInfo](reply, ProductInfoSpec)
	if err != nil {
		return nil, err
	}
	info.Normalize()
	return info, nil
}
