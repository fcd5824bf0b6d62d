package enum

// CartEventType 表示購物車變更事件的類型
type CartEventType string

const (
	CartEventItemAdded       CartEventType = "item_added"
	CartEventItemRemoved     CartEventType = "item_removed"
	CartEventQuantityChanged CartEventType = "quantity_changed"
	CartEventCleared         CartEventType = "cleared"
	CartEventCheckedOut      CartEventType = "checked_out"
)

// CartEventTypes lists every event type a cart mutation can publish.
func CartEventTypes() []CartEventType {
	return []CartEventType{
		CartEventItemAdded,
		CartEventItemRemoved,
		CartEventQuantityChanged,
		CartEventCleared,
		CartEventCheckedOut,
	}
}
