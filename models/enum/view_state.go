package enum

// ViewState 表示購物車視圖的可見狀態
type ViewState string

const (
	ViewStateHidden  ViewState = "hidden"
	ViewStateVisible ViewState = "visible"
)
