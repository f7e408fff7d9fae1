package schema

// Kind is the scalar type a field carries on the nested side. Numbers are
// coerced with a zero default, booleans with false, everything else is a
// string.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

// FieldMapping binds one flat key to its nested locations. Sources are dot
// paths into Record.Sections ordered most-current schema revision first;
// the first path whose key exists wins, even when the value is an explicit
// empty string. The record's legacy flat value is always the implicit last
// fallback and the per-kind default the final one. Sources[0] is the
// canonical location and the only one ToNested writes.
type FieldMapping struct {
	Flat    string
	Kind    Kind
	Sources []string
}

// Mappings is the single table driving both translation directions.
// Grouped by section of the current schema.
var Mappings = []FieldMapping{
	// documentInfo
	{Flat: "refNo", Sources: []string{"documentInfo.refNo"}},
	{Flat: "dateOfValuation", Sources: []string{"documentInfo.dateOfValuation"}},
	{Flat: "dateOfInspection", Sources: []string{"documentInfo.dateOfInspection"}},
	{Flat: "purposeOfValuation", Sources: []string{"documentInfo.purposeOfValuation"}},
	{Flat: "documentsProduced", Sources: []string{"documentInfo.documentsProduced"}},
	{Flat: "bankName", Sources: []string{"documentInfo.bankName", "bankDetails.bankName"}},
	{Flat: "otherBankName", Sources: []string{"documentInfo.otherBankName", "bankDetails.otherBankName"}},
	{Flat: "branchName", Sources: []string{"documentInfo.branchName", "bankDetails.branchName"}},
	{Flat: "dsa", Sources: []string{"documentInfo.dsa"}},
	{Flat: "otherDsa", Sources: []string{"documentInfo.otherDsa"}},
	{Flat: "engineerName", Sources: []string{"documentInfo.engineerName"}},
	{Flat: "otherEngineerName", Sources: []string{"documentInfo.otherEngineerName"}},

	// ownerDetails
	{Flat: "clientName", Sources: []string{"ownerDetails.clientName", "documentInfo.clientName"}},
	{Flat: "ownerName", Sources: []string{"ownerDetails.ownerName"}},
	{Flat: "borrowerName", Sources: []string{"ownerDetails.borrowerName"}},
	{Flat: "address", Sources: []string{"ownerDetails.address"}},
	{Flat: "mobileNumber", Sources: []string{"ownerDetails.mobileNumber", "ownerDetails.phoneNumber"}},
	{Flat: "email", Sources: []string{"ownerDetails.email"}},
	{Flat: "occupation", Sources: []string{"ownerDetails.occupation"}},

	// propertyLocation
	{Flat: "plotNo", Sources: []string{"propertyLocation.plotNo", "locationOfProperty.plotNo"}},
	{Flat: "surveyNo", Sources: []string{"propertyLocation.surveyNo", "locationOfProperty.surveyNo"}},
	{Flat: "doorNo", Sources: []string{"propertyLocation.doorNo", "locationOfProperty.doorNo"}},
	{Flat: "street", Sources: []string{"propertyLocation.street"}},
	{Flat: "locality", Sources: []string{"propertyLocation.locality"}},
	{Flat: "village", Sources: []string{"propertyLocation.village"}},
	{Flat: "taluka", Sources: []string{"propertyLocation.taluka"}},
	{Flat: "district", Sources: []string{"propertyLocation.district"}},
	{Flat: "state", Sources: []string{"propertyLocation.state"}},
	{Flat: "pinCode", Sources: []string{"propertyLocation.pinCode"}},
	{Flat: "landmark", Sources: []string{"propertyLocation.landmark"}},
	{Flat: "latitude", Sources: []string{"propertyLocation.latitude", "locationOfProperty.latitude"}},
	{Flat: "longitude", Sources: []string{"propertyLocation.longitude", "locationOfProperty.longitude"}},

	// cityClassification
	{Flat: "city", Sources: []string{"cityClassification.city", "documentInfo.city"}},
	{Flat: "otherCity", Sources: []string{"cityClassification.otherCity", "documentInfo.otherCity"}},
	{Flat: "areaType", Sources: []string{"cityClassification.areaType"}},
	{Flat: "municipalLimit", Sources: []string{"cityClassification.municipalLimit"}},
	{Flat: "cityCategory", Sources: []string{"cityClassification.cityCategory"}},

	// areaClassification
	{Flat: "areaClass", Sources: []string{"areaClassification.areaClass"}},
	{Flat: "localityType", Sources: []string{"areaClassification.localityType"}},
	{Flat: "developmentLevel", Sources: []string{"areaClassification.developmentLevel"}},
	{Flat: "civicAmenities", Sources: []string{"areaClassification.civicAmenities"}},

	// boundaries (site visit vs title deed)
	{Flat: "northBy", Sources: []string{"boundaries.northBy", "propertyBoundaries.north"}},
	{Flat: "southBy", Sources: []string{"boundaries.southBy", "propertyBoundaries.south"}},
	{Flat: "eastBy", Sources: []string{"boundaries.eastBy", "propertyBoundaries.east"}},
	{Flat: "westBy", Sources: []string{"boundaries.westBy", "propertyBoundaries.west"}},
	{Flat: "northByDeed", Sources: []string{"boundaries.northByDeed"}},
	{Flat: "southByDeed", Sources: []string{"boundaries.southByDeed"}},
	{Flat: "eastByDeed", Sources: []string{"boundaries.eastByDeed"}},
	{Flat: "westByDeed", Sources: []string{"boundaries.westByDeed"}},
	{Flat: "boundariesMatch", Kind: KindBool, Sources: []string{"boundaries.boundariesMatch"}},

	// dimensions
	{Flat: "northDim", Sources: []string{"dimensions.northDim"}},
	{Flat: "southDim", Sources: []string{"dimensions.southDim"}},
	{Flat: "eastDim", Sources: []string{"dimensions.eastDim"}},
	{Flat: "westDim", Sources: []string{"dimensions.westDim"}},
	{Flat: "northDimDeed", Sources: []string{"dimensions.northDimDeed"}},
	{Flat: "southDimDeed", Sources: []string{"dimensions.southDimDeed"}},
	{Flat: "eastDimDeed", Sources: []string{"dimensions.eastDimDeed"}},
	{Flat: "westDimDeed", Sources: []string{"dimensions.westDimDeed"}},
	{Flat: "totalExtent", Kind: KindNumber, Sources: []string{"dimensions.totalExtent"}},

	// rateInfo
	{Flat: "landRate", Kind: KindNumber, Sources: []string{"rateInfo.landRate"}},
	{Flat: "landRateReference", Sources: []string{"rateInfo.landRateReference"}},
	{Flat: "guidelineRate", Kind: KindNumber, Sources: []string{"rateInfo.guidelineRate"}},
	{Flat: "prevailingMarketRate", Kind: KindNumber, Sources: []string{"rateInfo.prevailingMarketRate"}},
	{Flat: "landValue", Kind: KindNumber, Sources: []string{"rateInfo.landValue"}},

	// compositeRate
	{Flat: "compositeRateAdopted", Kind: KindNumber, Sources: []string{"compositeRate.compositeRateAdopted"}},
	{Flat: "buildingServiceLife", Kind: KindNumber, Sources: []string{"compositeRate.buildingServiceLife"}},
	{Flat: "depreciationRate", Kind: KindNumber, Sources: []string{"compositeRate.depreciationRate"}},
	{Flat: "replacementCost", Kind: KindNumber, Sources: []string{"compositeRate.replacementCost"}},
	{Flat: "netCompositeRate", Kind: KindNumber, Sources: []string{"compositeRate.netCompositeRate"}},

	// valuationResult; sayValue is entered independently of the other
	// figures and is not reconciled against them.
	{Flat: "fairMarketValue", Kind: KindNumber, Sources: []string{"valuationResult.fairMarketValue"}},
	{Flat: "realizableValue", Kind: KindNumber, Sources: []string{"valuationResult.realizableValue"}},
	{Flat: "distressValue", Kind: KindNumber, Sources: []string{"valuationResult.distressValue"}},
	{Flat: "sayValue", Kind: KindNumber, Sources: []string{"valuationResult.sayValue"}},
	{Flat: "insurableValue", Kind: KindNumber, Sources: []string{"valuationResult.insurableValue"}},
	{Flat: "bookValue", Kind: KindNumber, Sources: []string{"valuationResult.bookValue"}},
	{Flat: "guidelineValue", Kind: KindNumber, Sources: []string{"valuationResult.guidelineValue"}},

	// apartmentLocation
	{Flat: "apartmentName", Sources: []string{"apartmentLocation.apartmentName"}},
	{Flat: "floorNo", Sources: []string{"apartmentLocation.floorNo"}},
	{Flat: "unitNo", Sources: []string{"apartmentLocation.unitNo"}},
	{Flat: "totalFloors", Kind: KindNumber, Sources: []string{"apartmentLocation.totalFloors"}},
	{Flat: "natureOfApartment", Sources: []string{"apartmentLocation.natureOfApartment"}},
	{Flat: "yearOfConstruction", Sources: []string{"apartmentLocation.yearOfConstruction"}},
	{Flat: "residualAge", Kind: KindNumber, Sources: []string{"apartmentLocation.residualAge"}},

	// buildingConstruction
	{Flat: "typeOfStructure", Sources: []string{"buildingConstruction.typeOfStructure"}},
	{Flat: "foundationType", Sources: []string{"buildingConstruction.foundationType"}},
	{Flat: "roofType", Sources: []string{"buildingConstruction.roofType"}},
	{Flat: "flooringType", Sources: []string{"buildingConstruction.flooringType"}},
	{Flat: "wallType", Sources: []string{"buildingConstruction.wallType"}},
	{Flat: "doorsWindows", Sources: []string{"buildingConstruction.doorsWindows"}},
	{Flat: "constructionQuality", Sources: []string{"buildingConstruction.constructionQuality"}},
	{Flat: "maintenanceCondition", Sources: []string{"buildingConstruction.maintenanceCondition"}},
	{Flat: "exteriorFinish", Sources: []string{"buildingConstruction.exteriorFinish"}},
	{Flat: "interiorFinish", Sources: []string{"buildingConstruction.interiorFinish"}},

	// facilities
	{Flat: "lift", Kind: KindBool, Sources: []string{"facilities.lift"}},
	{Flat: "waterSupply", Kind: KindBool, Sources: []string{"facilities.waterSupply"}},
	{Flat: "sewerage", Kind: KindBool, Sources: []string{"facilities.sewerage"}},
	{Flat: "carParking", Kind: KindBool, Sources: []string{"facilities.carParking"}},
	{Flat: "compoundWall", Kind: KindBool, Sources: []string{"facilities.compoundWall"}},
	{Flat: "pavement", Kind: KindBool, Sources: []string{"facilities.pavement"}},
	{Flat: "powerBackup", Kind: KindBool, Sources: []string{"facilities.powerBackup"}},
	{Flat: "security", Kind: KindBool, Sources: []string{"facilities.security"}},

	// unitSpecification
	{Flat: "livingRooms", Kind: KindNumber, Sources: []string{"unitSpecification.livingRooms"}},
	{Flat: "bedrooms", Kind: KindNumber, Sources: []string{"unitSpecification.bedrooms"}},
	{Flat: "kitchens", Kind: KindNumber, Sources: []string{"unitSpecification.kitchens"}},
	{Flat: "bathrooms", Kind: KindNumber, Sources: []string{"unitSpecification.bathrooms"}},
	{Flat: "balconies", Kind: KindNumber, Sources: []string{"unitSpecification.balconies"}},
	{Flat: "specFlooring", Sources: []string{"unitSpecification.specFlooring"}},
	{Flat: "specDoors", Sources: []string{"unitSpecification.specDoors"}},
	{Flat: "specWindows", Sources: []string{"unitSpecification.specWindows"}},
	{Flat: "specFittings", Sources: []string{"unitSpecification.specFittings"}},
	{Flat: "specFinishing", Sources: []string{"unitSpecification.specFinishing"}},

	// unitTax
	{Flat: "assessmentNo", Sources: []string{"unitTax.assessmentNo"}},
	{Flat: "taxPaidName", Sources: []string{"unitTax.taxPaidName"}},
	{Flat: "taxAmount", Kind: KindNumber, Sources: []string{"unitTax.taxAmount"}},
	{Flat: "taxReceiptVerified", Kind: KindBool, Sources: []string{"unitTax.taxReceiptVerified"}},

	// electricityService
	{Flat: "serviceConnectionNo", Sources: []string{"electricityService.serviceConnectionNo"}},
	{Flat: "meterCardName", Sources: []string{"electricityService.meterCardName"}},

	// unitMaintenance
	{Flat: "maintenanceOfUnit", Sources: []string{"unitMaintenance.maintenanceOfUnit"}},
	{Flat: "undividedLandShare", Sources: []string{"unitMaintenance.undividedLandShare"}},

	// agreementForSale
	{Flat: "agreementValue", Kind: KindNumber, Sources: []string{"agreementForSale.agreementValue"}},
	{Flat: "agreementParties", Sources: []string{"agreementForSale.agreementParties"}},
	{Flat: "agreementDate", Sources: []string{"agreementForSale.agreementDate"}},
	{Flat: "stampDutyPaid", Kind: KindBool, Sources: []string{"agreementForSale.stampDutyPaid"}},

	// unitAreaDetails
	{Flat: "plinthArea", Kind: KindNumber, Sources: []string{"unitAreaDetails.plinthArea", "unitSpecification.plinthArea"}},
	{Flat: "carpetArea", Kind: KindNumber, Sources: []string{"unitAreaDetails.carpetArea", "unitSpecification.carpetArea"}},
	{Flat: "saleableArea", Kind: KindNumber, Sources: []string{"unitAreaDetails.saleableArea"}},
	{Flat: "superBuiltUpArea", Kind: KindNumber, Sources: []string{"unitAreaDetails.superBuiltUpArea"}},

	// unitClassification
	{Flat: "unitPosture", Sources: []string{"unitClassification.unitPosture"}},
	{Flat: "unitFacing", Sources: []string{"unitClassification.unitFacing"}},
	{Flat: "usageOfUnit", Sources: []string{"unitClassification.usageOfUnit"}},
	{Flat: "occupancyStatus", Sources: []string{"unitClassification.occupancyStatus"}},
	{Flat: "monthlyRent", Kind: KindNumber, Sources: []string{"unitClassification.monthlyRent"}},

	// signatureReport
	{Flat: "reportDate", Sources: []string{"signatureReport.reportDate"}},
	{Flat: "reportPlace", Sources: []string{"signatureReport.reportPlace"}},
	{Flat: "valuerName", Sources: []string{"signatureReport.valuerName"}},
	{Flat: "valuerQualification", Sources: []string{"signatureReport.valuerQualification"}},
	{Flat: "declaration", Sources: []string{"signatureReport.declaration"}},

	// marketability
	{Flat: "marketability", Sources: []string{"marketability.marketability"}},
	{Flat: "marketabilityRemarks", Sources: []string{"marketability.remarks"}},

	// payment
	{Flat: "paymentCollected", Kind: KindBool, Sources: []string{"payment.paymentCollected"}},
	{Flat: "collectedByName", Sources: []string{"payment.collectedByName"}},
	{Flat: "collectionAmount", Kind: KindNumber, Sources: []string{"payment.collectionAmount"}},
}

// Defaults returns the flat field set a brand-new record starts from:
// every known key at its kind's zero value.
func Defaults() FlatFieldSet {
	out := make(FlatFieldSet, len(Mappings))
	for _, fm := range Mappings {
		switch fm.Kind {
		case KindNumber:
			out[fm.Flat] = float64(0)
		case KindBool:
			out[fm.Flat] = false
		default:
			out[fm.Flat] = ""
		}
	}
	return out
}

// mappingByFlat is an index over Mappings for lookups by flat key.
var mappingByFlat = func() map[string]FieldMapping {
	idx := make(map[string]FieldMapping, len(Mappings))
	for _, fm := range Mappings {
		idx[fm.Flat] = fm
	}
	return idx
}()

// MappingFor returns the mapping entry for a flat key, if one exists.
func MappingFor(flatKey string) (FieldMapping, bool) {
	fm, ok := mappingByFlat[flatKey]
	return fm, ok
}
