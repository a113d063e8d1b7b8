package location

// DefaultEntries returns the built-in places. A fresh slice is returned on
// every call; the table built from it is the only shared copy.
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "New York", Region: "NY", Aliases: []string{"nyc", "new york city"}, Latitude: 40.7128, Longitude: -74.0060},
		{Name: "London", Region: "UK", Latitude: 51.5074, Longitude: -0.1278},
		{Name: "Paris", Region: "France", Latitude: 48.8566, Longitude: 2.3522},
		{Name: "Tokyo", Region: "Japan", Latitude: 35.6762, Longitude: 139.6503},
		{Name: "Los Angeles", Region: "CA", Aliases: []string{"la"}, Latitude: 34.0522, Longitude: -118.2437},
		{Name: "Chicago", Region: "IL", Latitude: 41.8781, Longitude: -87.6298},
		{Name: "Houston", Region: "TX", Latitude: 29.7604, Longitude: -95.3698},
		{Name: "Phoenix", Region: "AZ", Latitude: 33.4484, Longitude: -112.0740},
		{Name: "Philadelphia", Region: "PA", Aliases: []string{"philly"}, Latitude: 39.9526, Longitude: -75.1652},
		{Name: "San Antonio", Region: "TX", Latitude: 29.4241, Longitude: -98.4936},
		{Name: "San Diego", Region: "CA", Latitude: 32.7157, Longitude: -117.1611},
		{Name: "Dallas", Region: "TX", Latitude: 32.7767, Longitude: -96.7970},
		{Name: "San Jose", Region: "CA", Latitude: 37.3382, Longitude: -121.8863},
		{Name: "Austin", Region: "TX", Latitude: 30.2672, Longitude: -97.7431},
		{Name: "Jacksonville", Region: "FL", Latitude: 30.3322, Longitude: -81.6557},
		{Name: "Fort Worth", Region: "TX", Latitude: 32.7555, Longitude: -97.3308},
		{Name: "Columbus", Region: "OH", Latitude: 39.9612, Longitude: -82.9988},
		{Name: "Charlotte", Region: "NC", Latitude: 35.2271, Longitude: -80.8431},
		{Name: "Seattle", Region: "WA", Latitude: 47.6062, Longitude: -122.3321},
		{Name: "Denver", Region: "CO", Latitude: 39.7392, Longitude: -104.9903},
		{Name: "Washington", Region: "DC", Aliases: []string{"washington dc", "dc"}, Latitude: 38.9072, Longitude: -77.0369},
		{Name: "Boston", Region: "MA", Latitude: 42.3601, Longitude: -71.0589},
		{Name: "El Paso", Region: "TX", Latitude: 31.7619, Longitude: -106.4850},
		{Name: "Nashville", Region: "TN", Latitude: 36.1627, Longitude: -86.7816},
		{Name: "Detroit", Region: "MI", Latitude: 42.3314, Longitude: -83.0458},
		{Name: "Oklahoma City", Region: "OK", Latitude: 35.4676, Longitude: -97.5164},
		{Name: "Portland", Region: "OR", Latitude: 45.5152, Longitude: -122.6784},
		{Name: "Las Vegas", Region: "NV", Latitude: 36.1699, Longitude: -115.1398},
		{Name: "Memphis", Region: "TN", Latitude: 35.1495, Longitude: -90.0490},
		{Name: "Louisville", Region: "KY", Latitude: 38.2527, Longitude: -85.7585},
		{Name: "Baltimore", Region: "MD", Latitude: 39.2904, Longitude: -76.6122},
		{Name: "Milwaukee", Region: "WI", Latitude: 43.0389, Longitude: -87.9065},
		{Name: "Albuquerque", Region: "NM", Latitude: 35.0844, Longitude: -106.6504},
		{Name: "Tucson", Region: "AZ", Latitude: 32.2226, Longitude: -110.9747},
		{Name: "Fresno", Region: "CA", Latitude: 36.7378, Longitude: -119.7871},
		{Name: "Sacramento", Region: "CA", Latitude: 38.5816, Longitude: -121.4944},
		{Name: "Mesa", Region: "AZ", Latitude: 33.4152, Longitude: -111.8315},
		{Name: "Kansas City", Region: "MO", Latitude: 39.0997, Longitude: -94.5786},
		{Name: "Atlanta", Region: "GA", Latitude: 33.7490, Longitude: -84.3880},
		{Name: "Long Beach", Region: "CA", Latitude: 33.7701, Longitude: -118.1937},
		{Name: "Colorado Springs", Region: "CO", Latitude: 38.8339, Longitude: -104.8214},
		{Name: "Raleigh", Region: "NC", Latitude: 35.7796, Longitude: -78.6382},
		{Name: "Miami", Region: "FL", Latitude: 25.7617, Longitude: -80.1918},
		{Name: "Virginia Beach", Region: "VA", Latitude: 36.8529, Longitude: -75.9780},
		{Name: "Omaha", Region: "NE", Latitude: 41.2565, Longitude: -95.9345},
		{Name: "Oakland", Region: "CA", Latitude: 37.8044, Longitude: -122.2712},
		{Name: "Minneapolis", Region: "MN", Latitude: 44.9778, Longitude: -93.2650},
		{Name: "Tulsa", Region: "OK", Latitude: 36.1540, Longitude: -95.9928},
		{Name: "Cleveland", Region: "OH", Latitude: 41.4993, Longitude: -81.6944},
		{Name: "Wichita", Region: "KS", Latitude: 37.6872, Longitude: -97.3301},
		{Name: "Arlington", Region: "TX", Latitude: 32.7357, Longitude: -97.1081},
	}
}

// regionCodes maps full region names to the short form used in the table.
var regionCodes = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar",
	"california": "ca", "colorado": "co", "connecticut": "ct", "delaware": "de",
	"district of columbia": "dc", "florida": "fl", "georgia": "ga", "hawaii": "hi",
	"idaho": "id", "illinois": "il", "indiana": "in", "iowa": "ia",
	"kansas": "ks", "kentucky": "ky", "louisiana": "la", "maine": "me",
	"maryland": "md", "massachusetts": "ma", "michigan": "mi", "minnesota": "mn",
	"mississippi": "ms", "missouri": "mo", "montana": "mt", "nebraska": "ne",
	"nevada": "nv", "new hampshire": "nh", "new jersey": "nj", "new mexico": "nm",
	"new york": "ny", "north carolina": "nc", "north dakota": "nd", "ohio": "oh",
	"oklahoma": "ok", "oregon": "or", "pennsylvania": "pa", "rhode island": "ri",
	"south carolina": "sc", "south dakota": "sd", "tennessee": "tn", "texas": "tx",
	"utah": "ut", "vermont": "vt", "virginia": "va", "washington": "wa",
	"west virginia": "wv", "wisconsin": "wi", "wyoming": "wy",

	"united kingdom": "uk", "england": "uk", "great britain": "uk", "gb": "uk",
	"fr": "france", "jp": "japan",
}

func canonicalRegion(region string) string {
	if code, ok := regionCodes[region]; ok {
		return code
	}
	return region
}
