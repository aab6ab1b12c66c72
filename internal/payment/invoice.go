package payment

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// InvoiceIDs выдает числовые InvId: провайдер принимает только целые номера счетов
type InvoiceIDs struct {
	node *snowflake.Node
}

func NewInvoiceIDs(nodeID int64) (*InvoiceIDs, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice node id %d: %w", nodeID, err)
	}
	return &InvoiceIDs{node: node}, nil
}

func (g *InvoiceIDs) Next() int64 {
	return g.node.Generate().Int64()
}
