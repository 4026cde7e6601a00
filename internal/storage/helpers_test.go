package storage

import "github.com/Veraticus/spicecat/internal/service"

func serviceFilter(category string, uncategorized bool, limit int) service.ExpenseFilter {
	return service.ExpenseFilter{
		CategoryName:  category,
		Uncategorized: uncategorized,
		Limit:         limit,
	}
}
