package expand

// DefaultTerms is the built-in LTE/telecom vocabulary table. Callers
// working in another domain supply their own mapping via LoadTerms.
var DefaultTerms = map[string]string{
	"UE":     "User Equipment (mobile device)",
	"MME":    "Mobility Management Entity (core network)",
	"HSS":    "Home Subscriber Server (user database)",
	"eNodeB": "Evolved Node B (base station)",
	"EPS":    "Evolved Packet System (LTE core)",
	"PDN":    "Packet Data Network (internet)",
	"QCI":    "QoS Class Identifier (service quality)",
	"APN":    "Access Point Name (network gateway)",
	"IMSI":   "International Mobile Subscriber Identity",
	"GUTI":   "Globally Unique Temporary Identifier",
	"VoLTE":  "Voice over LTE (voice calls)",
	"IMS":    "IP Multimedia Subsystem (services)",
	"SIP":    "Session Initiation Protocol (signaling)",
	"RTP":    "Real-time Transport Protocol (media)",
	"PCRF":   "Policy and Charging Rules Function",
	"PGW":    "Packet Data Network Gateway",
	"SGW":    "Serving Gateway (data forwarding)",
	"TAU":    "Tracking Area Update (location)",
	"NAS":    "Non-Access Stratum (signaling)",
	"EUTRA":  "Evolved Universal Terrestrial Radio Access",
	"IoT":    "Internet of Things",
	"PCC":    "Policy And Charging Control",
	"EPC":    "Evolved Packet Core",
	"RLC":    "Radio Link Control",
	"UL":     "Up Link",
	"TFT":    "Traffic Flow Template",
}
