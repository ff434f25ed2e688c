package log

const (
	KeyAppName       = "app"
	KeyCacheKey      = "cacheKey"
	KeyCartItems     = "cartItems"
	KeyConfig        = "config"
	KeyCouponCode    = "couponCode"
	KeyOrder         = "order"
	KeyOrderID       = "orderId"
	KeyOrderStatus   = "orderStatus"
	KeyProcess       = "process"
	KeyProductID     = "productId"
	KeyQuantity      = "quantity"
	KeyReminderID    = "reminderId"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestID     = "requestId"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyScope         = "scope"
	KeyStorageKey    = "storageKey"
	KeyTag           = "tag"
	KeyUserID        = "userId"
)
