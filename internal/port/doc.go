// Package port checks whether the host ports the database service publishes
// are free before dbdock asks Compose to start the project.
//
// Availability is tested by binding the port with net.Listen (TCP) or
// net.ListenPacket (UDP) and releasing it immediately. A port that cannot be
// bound is reported as a conflict, so "start" can fail with a clear message
// instead of leaving Compose half-started on a bind error. The conflict report
// names the nearest free port for each busy one.
package port
