package constants

// Sentinel tokens written into dimension fields so that the unique key
// always hashes over a defined value, never an absent one.

const (
	TokenNoPage       = "__NO_PAGE__"
	TokenNoCountry    = "__NO_COUNTRY__"
	TokenNoDevice     = "__NO_DEVICE__"
	TokenNoAppearance = "__NO_APPEARANCE__"
	TokenNoIndex      = "__NO_INDEX__"
	TokenPageTotal    = "__PAGE_TOTAL__"
	TokenSiteTotal    = "__SITE_TOTAL__"
	TokenEmptyValue   = "" // absent dimension as seen by the key deriver
)

// Dimension and column names.

const (
	DimDate             = "date"
	DimQuery            = "query"
	DimPage             = "page"
	DimCountry          = "country"
	DimDevice           = "device"
	DimSearchAppearance = "searchAppearance"

	ColDate             = "Date"
	ColQuery            = "Query"
	ColPage             = "Page"
	ColCountry          = "Country"
	ColDevice           = "Device"
	ColSearchAppearance = "SearchAppearance"
	ColClicks           = "Clicks"
	ColImpressions      = "Impressions"
	ColCtr              = "CTR"
	ColPosition         = "Position"
	ColSearchType       = "SearchType"
	ColUniqueKey        = "unique_key"
	ColFetchDate        = "fetch_date"
	ColFetchID          = "fetch_id"

	ColTargetEntity     = "TargetEntity"
	ColAllocMethod      = "AllocationMethod"
	ColAllocWeight      = "AllocationWeight"
	ColClicksAlloc      = "Clicks_alloc"
	ColImpressionsAlloc = "Impressions_alloc"
	ColCtrAlloc         = "CTR_alloc"
	ColPositionAlloc    = "Position_alloc"
)

// Defaults and formats.

const (
	KeyFieldDelimiter           = "|"
	TimeFormatDate              = "2006-01-02" // canonical YYYY-MM-DD used in keys and queries
	TimeFormatDateRegex         = "[0-9]{4}-[0-9]{2}-[0-9]{2}"
	TimeFormatFetchID           = "20060102T150405"
	RowLimitDefault             = 25000
	RetryIntervalSecondsDefault = 60
	DefaultStartDateOffsetDays  = 3 // start date defaults to UTC today minus this many days
	SearchTypeWeb               = "web"
	AllocationMethodDirect      = "direct"
	AllocationWeightDefault     = 1.0
	EnvVarPrefix                = "GSCSYNC" // prefix for environment variable overrides
)

// SearchTypesOther are the non-web search types fetched by the
// other-search-types batches.
var SearchTypesOther = []string{"image", "video", "news"}
