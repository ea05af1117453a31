package seaport

import "github.com/ethereum/go-ethereum/common"

// GenerateCriteriaResolvers builds the CriteriaResolver records for every
// criteria-based item across a batch of orders, in the order the items appear,
// zipped with the caller-supplied per-order criteria lists. Offer resolvers
// come first, then consideration resolvers. Items whose stored root is zero
// accept any identifier and carry an empty proof.
func GenerateCriteriaResolvers(orders []*Order, offerCriterias, considerationCriterias [][]InputCriteria) ([]CriteriaResolver, error) {
	var resolvers []CriteriaResolver

	for orderIndex, order := range orders {
		var criterias []InputCriteria
		if orderIndex < len(offerCriterias) {
			criterias = offerCriterias[orderIndex]
		}
		orderResolvers, err := resolveCriteriaItems(orderIndex, SideOffer, order.Parameters.Offer, criterias)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, orderResolvers...)
	}

	for orderIndex, order := range orders {
		var criterias []InputCriteria
		if orderIndex < len(considerationCriterias) {
			criterias = considerationCriterias[orderIndex]
		}
		orderResolvers, err := resolveCriteriaItems(orderIndex, SideConsideration, considerationAsItems(order.Parameters.Consideration), criterias)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, orderResolvers...)
	}

	return resolvers, nil
}

func resolveCriteriaItems(orderIndex int, side Side, items []OfferItem, criterias []InputCriteria) ([]CriteriaResolver, error) {
	var resolvers []CriteriaResolver
	next := 0
	for itemIndex, item := range items {
		if !IsCriteriaItem(item.ItemType) {
			continue
		}
		if next >= len(criterias) {
			return nil, ErrMissingCriteria
		}
		criteria := criterias[next]
		next++

		var proof []common.Hash
		if item.IdentifierOrCriteria.Sign() != 0 {
			tree := NewMerkleTree(criteria.ValidIdentifiers)
			proof = tree.Proof(criteria.Identifier)
		}

		resolvers = append(resolvers, CriteriaResolver{
			OrderIndex:    orderIndex,
			Side:          side,
			Index:         itemIndex,
			Identifier:    copyBig(criteria.Identifier),
			CriteriaProof: proof,
		})
	}
	return resolvers, nil
}
