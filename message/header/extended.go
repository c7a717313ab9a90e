package header

// ExtendedProperties holds rarely needed header values. It is only filled in
// when parsing with WithExtended.
type ExtendedProperties struct {
	AcceptLanguage        string
	AuthenticationResults string
	AutoResponseSuppress  string
	BouncesTo             string
	Campaign              string
	ContentDescription    string
	ContentLanguage       string
	DeliveryContext       string
	DKIMSignature         string
	DomainKeySignature    string
	ErrorsTo              string
	ListArchive           string
	ListHelp              string
	ListID                string
	ListOwner             string
	ListPost              string
	ListSubscribe         string
	ListUnsubscribe       string
	MailingListID         string
	Mailer                string
	MIMEVersion           string
	MSMailPriority        string
	OriginatingEmail      string
	OriginatingIP         string
	RcptTo                string
	ReceivedSPF           string
	ReportAbuse           string
	ResentFrom            string
	ResentMessageID       string
	SpamScore             string
	ThreadIndex           string
	ThreadTopic           string
	UserAgent             string
	VirusScanned          string
}

type extendedHandler func(e *ExtendedProperties, v string)

// extendedFields maps every known spelling of an extended field to the
// property it fills.
var extendedFields = map[string]extendedHandler{
	"accept-language":          func(e *ExtendedProperties, v string) { e.AcceptLanguage = v },
	"acceptlanguage":           func(e *ExtendedProperties, v string) { e.AcceptLanguage = v },
	"authentication-results":   func(e *ExtendedProperties, v string) { e.AuthenticationResults = v },
	"bounces-to":               func(e *ExtendedProperties, v string) { e.BouncesTo = v },
	"bounces_to":               func(e *ExtendedProperties, v string) { e.BouncesTo = v },
	"content-description":      func(e *ExtendedProperties, v string) { e.ContentDescription = v },
	"content-language":         func(e *ExtendedProperties, v string) { e.ContentLanguage = v },
	"dkim-signature":           func(e *ExtendedProperties, v string) { e.DKIMSignature = v },
	"domainkey-signature":      func(e *ExtendedProperties, v string) { e.DomainKeySignature = v },
	"errors-to":                func(e *ExtendedProperties, v string) { e.ErrorsTo = v },
	"list-archive":             func(e *ExtendedProperties, v string) { e.ListArchive = v },
	"list-help":                func(e *ExtendedProperties, v string) { e.ListHelp = v },
	"list-id":                  func(e *ExtendedProperties, v string) { e.ListID = v },
	"list-owner":               func(e *ExtendedProperties, v string) { e.ListOwner = v },
	"list-post":                func(e *ExtendedProperties, v string) { e.ListPost = v },
	"list-subscribe":           func(e *ExtendedProperties, v string) { e.ListSubscribe = v },
	"list-unsubscribe":         func(e *ExtendedProperties, v string) { e.ListUnsubscribe = v },
	"mailer":                   func(e *ExtendedProperties, v string) { e.Mailer = v },
	"x-mailer":                 func(e *ExtendedProperties, v string) { e.Mailer = v },
	"mime-version":             func(e *ExtendedProperties, v string) { e.MIMEVersion = v },
	"received-spf":             func(e *ExtendedProperties, v string) { e.ReceivedSPF = v },
	"resent-from":              func(e *ExtendedProperties, v string) { e.ResentFrom = v },
	"resent-message-id":        func(e *ExtendedProperties, v string) { e.ResentMessageID = v },
	"thread-index":             func(e *ExtendedProperties, v string) { e.ThreadIndex = v },
	"thread-topic":             func(e *ExtendedProperties, v string) { e.ThreadTopic = v },
	"user-agent":               func(e *ExtendedProperties, v string) { e.UserAgent = v },
	"x-auto-response-suppress": func(e *ExtendedProperties, v string) { e.AutoResponseSuppress = v },
	"x-campaign":               func(e *ExtendedProperties, v string) { e.Campaign = v },
	"x-campaignid":             func(e *ExtendedProperties, v string) { e.Campaign = v },
	"x-campaign-id":            func(e *ExtendedProperties, v string) { e.Campaign = v },
	"x-delivery-context":       func(e *ExtendedProperties, v string) { e.DeliveryContext = v },
	"x-maillist-id":            func(e *ExtendedProperties, v string) { e.MailingListID = v },
	"x-msmail-priority":        func(e *ExtendedProperties, v string) { e.MSMailPriority = v },
	"x-originating-email":      func(e *ExtendedProperties, v string) { e.OriginatingEmail = v },
	"x-originating-ip":         func(e *ExtendedProperties, v string) { e.OriginatingIP = v },
	"x-rcpt-to":                func(e *ExtendedProperties, v string) { e.RcptTo = v },
	"x-report-abuse":           func(e *ExtendedProperties, v string) { e.ReportAbuse = v },
	"x-report-abuse-to":        func(e *ExtendedProperties, v string) { e.ReportAbuse = v },
	"x-spam-score":             func(e *ExtendedProperties, v string) { e.SpamScore = v },
	"x-spamscore":              func(e *ExtendedProperties, v string) { e.SpamScore = v },
	"x-virus-scanned":          func(e *ExtendedProperties, v string) { e.VirusScanned = v },
}
