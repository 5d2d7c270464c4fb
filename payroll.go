package citypay

// Column names of the citywide payroll table.  The Raw* names exist only
// before cleaning; the rest are the canonical post-clean schema.
const (
	RawMidInit       = "mid_init"
	RawPayrollNumber = "payroll_number"
	RawLeaveStatus   = "leave_status_as_of_june_thirty"
	RawWorkLocation  = "work_location_borough"

	EmployeeName     = "employee_name"
	AgencyName       = "agency_name"
	FiscalYear       = "fiscal_year"
	WorkLocation     = "work_location"
	AgencyStartDate  = "agency_start_date"
	LeaveStatus      = "leave_status"
	BaseSalary       = "base_salary"
	RegularGrossPaid = "regular_gross_paid"
	RegularHours     = "regular_hours"
	OTHours          = "ot_hours"
	TotalOTPaid      = "total_ot_paid"
	TotalOtherPay    = "total_other_pay"
)

// Boroughs are the in-scope work locations after cleaning.
var Boroughs = []string{"BROOKLYN", "BRONX", "MANHATTAN", "QUEENS", "RICHMOND"}
