package integration_test

const (
	TestUserPassword = "Test123!@#"
	TestStaffEmail   = "staff@example.com"
	TestUserEmail    = "customer@example.com"
	TestOtherEmail   = "other@example.com"

	catalogSeedFile = "testdata/catalog_up.sql"
)

// rows created by testdata/catalog_up.sql
const (
	TestHamletPlayId          = 1
	TestMainStagePerformance  = 1
	TestStudioPerformance     = 2
	TestComedyPerformance     = 3
	TestMissingPerformanceId  = 999
	TestMainStageCapacity     = 200
	TestStudioCapacity        = 12
	TestStudioRows            = 3
	TestFirstPerformanceDate  = "2095-01-01"
	TestSecondPerformanceDate = "2095-01-02"
)
