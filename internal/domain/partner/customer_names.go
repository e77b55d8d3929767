package partner

import (
	"context"
)

// DeletedCustomerName is shown in place of a customer that no longer exists
const DeletedCustomerName = "(deleted customer)"

// NameIndex maps customer IDs to display names
type NameIndex map[int64]string

// Name returns the customer's name, or DeletedCustomerName when unknown
func (n NameIndex) Name(id int64) string {
	if name, ok := n[id]; ok {
		return name
	}
	return DeletedCustomerName
}

// LoadNameIndex resolves the names of the given customers with one lookup
func LoadNameIndex(ctx context.Context, repo CustomerRepository, ids []int64) (NameIndex, error) {
	customers, err := repo.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	index := make(NameIndex, len(customers))
	for _, c := range customers {
		index[c.ID] = c.Name
	}
	return index, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
