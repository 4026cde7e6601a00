package testutil

// CategoryName represents a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Category names shared across tests. They match entries in the default catalog.
const (
	CategoryUtilities     CategoryName = "Utilities"
	CategoryStationery    CategoryName = "Stationery"
	CategoryFood          CategoryName = "Food & Refreshments"
	CategoryTravel        CategoryName = "Travel"
	CategoryTransport     CategoryName = "Transport"
	CategoryMaintenance   CategoryName = "Maintenance & Repairs"
	CategoryMiscellaneous CategoryName = "Miscellaneous"
)

// FixtureMinimal is enough to exercise reclassification.
var FixtureMinimal = []CategoryName{
	CategoryUtilities,
	CategoryStationery,
	CategoryMiscellaneous,
}

// FixtureInstitution covers the categories most tests need.
var FixtureInstitution = []CategoryName{
	CategoryUtilities,
	CategoryStationery,
	CategoryFood,
	CategoryTravel,
	CategoryTransport,
	CategoryMaintenance,
	CategoryMiscellaneous,
}
