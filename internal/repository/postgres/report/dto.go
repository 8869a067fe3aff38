package report

type SiteInfo struct {
	ID       int    `json:"site_id"`
	Name     string `json:"site_name"`
	Location string `json:"site_location"`
}

type LabourInfo struct {
	ID   int    `json:"labour_id"`
	Name string `json:"name"`
	Code string `json:"labour_code"`
}
