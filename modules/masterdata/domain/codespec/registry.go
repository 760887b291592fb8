package codespec

// Entity type keys. One spec per codeable entity type; all allocation goes
// through the same allocator so the uniqueness logic cannot drift per entity.
const (
	ColorCard  = "color_card"
	Material   = "material"
	Machine    = "machine"
	Department = "department"
	Warehouse  = "warehouse"
	Team       = "team"
	Employee   = "employee"
)

// Machines share the MT prefix with materials but use a different width and
// live in a different table, so their scans cannot cross-contaminate. The
// overlap is preserved for compatibility with existing data.
var registry = map[string]Spec{
	ColorCard:  {Entity: ColorCard, Prefix: "SK", Width: 8},
	Material:   {Entity: Material, Prefix: "MT", Width: 8, TimestampFallback: true},
	Machine:    {Entity: Machine, Prefix: "MT", Width: 4},
	Department: {Entity: Department, Prefix: "DEPT", Width: 4},
	Warehouse:  {Entity: Warehouse, Prefix: "WH", Width: 5},
	Team:       {Entity: Team, Prefix: "TG", Width: 8},
	Employee:   {Entity: Employee, Width: 4, YearPrefix: true},
}

func Get(entity string) (Spec, bool) {
	s, ok := registry[entity]
	return s, ok
}

func MustGet(entity string) Spec {
	s, ok := registry[entity]
	if !ok {
		panic("codespec: unknown entity type " + entity)
	}
	return s
}
