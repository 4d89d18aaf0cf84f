package domain

// POSOrderAddition is one addition line inside a POS order item.
type POSOrderAddition struct {
	PDV         string  `json:"pdv"`
	Description string  `json:"descricao"`
	Quantity    float64 `json:"quantidade"`
	UnitPrice   float64 `json:"valor_unitario"`
}

// POSOrderItem is one order line in the POS submission payload.
type POSOrderItem struct {
	PDV         string             `json:"pdv"`
	Description string             `json:"descricao"`
	Quantity    float64            `json:"quantidade"`
	UnitPrice   float64            `json:"valor_unitario"`
	Note        string             `json:"observacao"`
	Additions   []POSOrderAddition `json:"adicionais"`
}

// POSOrder is the payload submitted to the POS order API.
type POSOrder struct {
	OrderID      string         `json:"order_id"`
	CodStore     string         `json:"cod_store"`
	CustomerName string         `json:"nome"`
	Phone        string         `json:"telefone"`
	DeliveryType string         `json:"tipo_entrega"`
	Items        []POSOrderItem `json:"itens"`
	DeliveryFee  float64        `json:"taxa_entrega"`
	Discount     float64        `json:"desconto"`
	Total        float64        `json:"total"`
}

// POSOrderResponse is the POS acknowledgement for a submitted order.
type POSOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// POSCatalogItem is one raw row of the POS catalog export. Addition rows use
// dotted codes ("100.1") whose prefix is the parent product's code.
type POSCatalogItem struct {
	Code           string  `json:"codigo_saipos"`
	Item           string  `json:"item"`
	ComplementItem string  `json:"complemento_item"`
	ItemType       string  `json:"item_type"`
	Price          float64 `json:"price"`
	Enabled        bool    `json:"store_item_enabled"`
}
