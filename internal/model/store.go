package model

// Store is one row of the static store reference table. The table is built
// in-process once per run; it is never derived from transactional data.
type Store struct {
	StoreID string `csv:"store_id"`
	NameJP  string `csv:"store_name_jp"`
	NameEN  string `csv:"store_name_en"`
	City    string `csv:"city"`
	Region  string `csv:"region"`
}

// StoreDirectory returns the fixed ten-store reference table. Returned as a
// fresh slice so callers cannot mutate shared state.
func StoreDirectory() []Store {
	return []Store{
		{StoreID: "S01", NameJP: "渋谷店", NameEN: "Shibuya", City: "Tokyo", Region: "Kanto"},
		{StoreID: "S02", NameJP: "新宿店", NameEN: "Shinjuku", City: "Tokyo", Region: "Kanto"},
		{StoreID: "S03", NameJP: "池袋店", NameEN: "Ikebukuro", City: "Tokyo", Region: "Kanto"},
		{StoreID: "S04", NameJP: "横浜店", NameEN: "Yokohama", City: "Yokohama", Region: "Kanto"},
		{StoreID: "S05", NameJP: "大阪店", NameEN: "Osaka", City: "Osaka", Region: "Kansai"},
		{StoreID: "S06", NameJP: "札幌店", NameEN: "Sapporo", City: "Sapporo", Region: "Hokkaido"},
		{StoreID: "S07", NameJP: "仙台店", NameEN: "Sendai", City: "Sendai", Region: "Tohoku"},
		{StoreID: "S08", NameJP: "名古屋店", NameEN: "Nagoya", City: "Nagoya", Region: "Chubu"},
		{StoreID: "S09", NameJP: "広島店", NameEN: "Hiroshima", City: "Hiroshima", Region: "Chugoku"},
		{StoreID: "S10", NameJP: "福岡店", NameEN: "Fukuoka", City: "Fukuoka", Region: "Kyushu"},
	}
}

// ValidStoreIDs returns the closed set of store IDs from a store table.
func ValidStoreIDs(stores []Store) map[string]struct{} {
	ids := make(map[string]struct{}, len(stores))
	for _, s := range stores {
		ids[s.StoreID] = struct{}{}
	}
	return ids
}
