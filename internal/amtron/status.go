package amtron

const unknownDescription = "Unknown"

type EVSEStatus uint16

const (
	EVSENotInitialized EVSEStatus = iota
	EVSEIdle
	EVSEConnected
	EVSEPreconditionsValid
	EVSEReadyToCharge
	EVSECharging
	EVSEError
	EVSEServiceMode
)

func (s EVSEStatus) Description() string {
	switch s {
	case EVSENotInitialized:
		return "Not initialized"
	case EVSEIdle:
		return "Idle"
	case EVSEConnected:
		return "EV connected"
	case EVSEPreconditionsValid:
		return "Preconditions valid but not charging yet"
	case EVSEReadyToCharge:
		return "Ready to charge"
	case EVSECharging:
		return "Charging"
	case EVSEError:
		return "Error"
	case EVSEServiceMode:
		return "Service mode"
	default:
		return unknownDescription
	}
}

func (s EVSEStatus) Known() bool { return s <= EVSEServiceMode }

type AuthorizationStatus uint16

const (
	AuthorizationNotRequired AuthorizationStatus = iota
	Authorized
	NotAuthorized
)

func (s AuthorizationStatus) Description() string {
	switch s {
	case AuthorizationNotRequired:
		return "Authorization not required"
	case Authorized:
		return "Authorized"
	case NotAuthorized:
		return "Not authorized"
	default:
		return unknownDescription
	}
}

func (s AuthorizationStatus) Known() bool { return s <= NotAuthorized }

type ChargingRelease uint16

const (
	ChargingNotAllowed ChargingRelease = iota
	ChargingAllowed
)

func (r ChargingRelease) Description() string {
	switch r {
	case ChargingNotAllowed:
		return "Charging not allowed"
	case ChargingAllowed:
		return "Charging allowed"
	default:
		return unknownDescription
	}
}

func (r ChargingRelease) Known() bool { return r <= ChargingAllowed }
