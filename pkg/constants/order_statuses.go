package constants

// --- СТАТУСЫ ЗАКАЗОВ (свободный текст, эти значения — принятые в мастерской) ---
const (
	StatusAccepted   = "принят"
	StatusInProgress = "в работе"
	StatusReady      = "готов"
	StatusDelivered  = "выдан"
	StatusCancelled  = "отменен"
)
