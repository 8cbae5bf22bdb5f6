package places

// irishCounties are the 26 counties of the Republic of Ireland, each
// referenced at its county town.
var irishCounties = []Place{
	{"Carlow", "Carlow", Point{52.8365, -6.9341}},
	{"Cavan", "Cavan", Point{53.9908, -7.3606}},
	{"Clare", "Clare", Point{52.8436, -8.9864}},
	{"Cork", "Cork", Point{51.8985, -8.4756}},
	{"Donegal", "Donegal", Point{54.8356, -7.4779}},
	{"Dublin", "Dublin", Point{53.3498, -6.2603}},
	{"Galway", "Galway", Point{53.2707, -9.0568}},
	{"Kerry", "Kerry", Point{52.2713, -9.6999}},
	{"Kildare", "Kildare", Point{53.2159, -6.6669}},
	{"Kilkenny", "Kilkenny", Point{52.6541, -7.2448}},
	{"Laois", "Laois", Point{53.0344, -7.2998}},
	{"Leitrim", "Leitrim", Point{53.9469, -8.0900}},
	{"Limerick", "Limerick", Point{52.6638, -8.6267}},
	{"Longford", "Longford", Point{53.7276, -7.7932}},
	{"Louth", "Louth", Point{54.0090, -6.4049}},
	{"Mayo", "Mayo", Point{53.8550, -9.2880}},
	{"Meath", "Meath", Point{53.6528, -6.6814}},
	{"Monaghan", "Monaghan", Point{54.2492, -6.9683}},
	{"Offaly", "Offaly", Point{53.2739, -7.4889}},
	{"Roscommon", "Roscommon", Point{53.6333, -8.1833}},
	{"Sligo", "Sligo", Point{54.2766, -8.4761}},
	{"Tipperary", "Tipperary", Point{52.3550, -7.7039}},
	{"Waterford", "Waterford", Point{52.2593, -7.1101}},
	{"Westmeath", "Westmeath", Point{53.5259, -7.3381}},
	{"Wexford", "Wexford", Point{52.3369, -6.4633}},
	{"Wicklow", "Wicklow", Point{52.9808, -6.0446}},
}

var irishTowns = []Place{
	{"Rathmines", "Dublin", Point{53.3225, -6.2650}},
	{"Swords", "Dublin", Point{53.4597, -6.2181}},
	{"Tallaght", "Dublin", Point{53.2859, -6.3733}},
	{"Blanchardstown", "Dublin", Point{53.3881, -6.3775}},
	{"Dun Laoghaire", "Dublin", Point{53.2940, -6.1349}},
	{"Athlone", "Westmeath", Point{53.4239, -7.9407}},
	{"Mullingar", "Westmeath", Point{53.5259, -7.3381}},
	{"Mallow", "Cork", Point{52.1390, -8.6451}},
	{"Kinsale", "Cork", Point{51.7059, -8.5222}},
	{"Killarney", "Kerry", Point{52.0599, -9.5044}},
	{"Tralee", "Kerry", Point{52.2713, -9.6999}},
	{"Ennis", "Clare", Point{52.8436, -8.9864}},
	{"Shannon", "Clare", Point{52.7038, -8.8642}},
	{"Letterkenny", "Donegal", Point{54.9503, -7.7343}},
	{"Lifford", "Donegal", Point{54.8356, -7.4779}},
	{"Westport", "Mayo", Point{53.8008, -9.5182}},
	{"Castlebar", "Mayo", Point{53.8550, -9.2880}},
	{"Naas", "Kildare", Point{53.2159, -6.6669}},
	{"Maynooth", "Kildare", Point{53.3813, -6.5918}},
	{"Newbridge", "Kildare", Point{53.1819, -6.7967}},
	{"Navan", "Meath", Point{53.6528, -6.6814}},
	{"Drogheda", "Louth", Point{53.7179, -6.3561}},
	{"Dundalk", "Louth", Point{54.0090, -6.4049}},
	{"Tullamore", "Offaly", Point{53.2739, -7.4889}},
	{"Portlaoise", "Laois", Point{53.0344, -7.2998}},
	{"Carrick-on-Shannon", "Leitrim", Point{53.9469, -8.0900}},
	{"Clonmel", "Tipperary", Point{52.3550, -7.7039}},
	{"Nenagh", "Tipperary", Point{52.8619, -8.1967}},
	{"Bray", "Wicklow", Point{53.2028, -6.0983}},
	{"Arklow", "Wicklow", Point{52.7978, -6.1599}},
	{"Salthill", "Galway", Point{53.2609, -9.0846}},
	{"Oranmore", "Galway", Point{53.2686, -8.9253}},
}
