package reservation

// ===============================
// Vehicle Status
// ===============================

type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleReserved    VehicleStatus = "reserved"
	VehicleRented      VehicleStatus = "rented"
	VehicleInUse       VehicleStatus = "in_use"
	VehicleInspection  VehicleStatus = "inspection"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"
)

// IsReservationHold indica que o status foi posto por uma reserva,
// não por manutenção/inventário.
func (s VehicleStatus) IsReservationHold() bool {
	switch s {
	case VehicleReserved, VehicleRented, VehicleInUse:
		return true
	}
	return false
}

// VehicleStatusAfter calcula o efeito de uma transição de reserva sobre o
// veículo. from é o status da reserva antes da transição; só uma reserva
// exclusiva libera o veículo. stillHeld indica outra reserva exclusiva ativa
// para o mesmo veículo.
func VehicleStatusAfter(
	from Status,
	to Status,
	current VehicleStatus,
	stillHeld bool,
) (VehicleStatus, bool) {

	switch to {
	case StatusCompleted:
		return VehicleInspection, current != VehicleInspection

	case StatusCancelled:
		if from.IsExclusive() && current.IsReservationHold() && !stillHeld {
			return VehicleAvailable, true
		}
	}

	return current, false
}
