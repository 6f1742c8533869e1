package services

import "MediCheck/models"

// GroupByRecipient partitions records by exact recipient identity. Groups
// come out in order of first appearance and each group keeps the input order.
func GroupByRecipient(records []models.MedicationRecord) []models.RecipientGroup {
	index := make(map[models.Recipient]int)
	groups := make([]models.RecipientGroup, 0)
	for _, r := range records {
		recipient := r.Recipient()
		i, ok := index[recipient]
		if !ok {
			i = len(groups)
			index[recipient] = i
			groups = append(groups, models.RecipientGroup{Recipient: recipient})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
