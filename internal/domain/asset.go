package domain

// Asset describes a tradeable asset. Decimals fixes the base-unit scale:
// an amount of 1_000_000 with 8 decimals is 0.01 of a whole unit.
type Asset struct {
	ID       string
	Name     string
	Decimals int
}

type AssetRepository interface {
	GetByID(assetID string) (*Asset, error)
}
