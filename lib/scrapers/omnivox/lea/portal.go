package lea

import "omnivox-backend/lib/scrapers/omnivox/core"

// Portal describes how to get around one institution's omnivox portal.
// Selectors of the Léa page pick the per course links, the others are
// applied to the home page unless stated otherwise.
type Portal struct {
	Institution string
	LoginUrl    string

	LeaSelector         string
	DocumentsSelector   string
	AssignmentsSelector string
	CalendarSelector    string
	// applied to the calendar page
	DisplayModeSelector string
	WhatsNewSelector    string
}

func omnivoxPortal(institution, subdomain string) Portal {
	return Portal{
		Institution: institution,
		LoginUrl:    "https://" + subdomain + "." + core.PortalDomain + core.LoginPath,

		LeaSelector:         "a[href*='/Module/Lea/']",
		DocumentsSelector:   "a[href*='/cvir/doce/']",
		AssignmentsSelector: "a[href*='/cvir/dtrv/']",
		CalendarSelector:    "a[href*='/Module/Calendrier/Default.aspx']",
		DisplayModeSelector: "a[href*='ChangerAffichage']",
		WhatsNewSelector:    ".qdn-item a",
	}
}

var SaintFoy = omnivoxPortal("Cégep de Sainte-Foy", "csf")

var Champlain = omnivoxPortal("Champlain College", "champlain-stlambert")
