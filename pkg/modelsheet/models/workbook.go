package models

// Workbook is the ordered set of category tables built for one model view.
type Workbook struct {
	// Name is the destination file name (no path).
	Name string `json:"name"`
	// View is the model view the tables were built from.
	View string `json:"view,omitempty"`
	// Tables holds one table per top-level category, in hierarchy order.
	Tables []CategoryTable `json:"tables"`
}

// ModelView describes one metadata view of a translated model.
type ModelView struct {
	// Name is the view name, e.g. "{3D}".
	Name string `json:"name"`
	// Role is "2d" or "3d".
	Role string `json:"role"`
	// GUID identifies the view in hierarchy and property requests.
	GUID string `json:"guid"`
}
