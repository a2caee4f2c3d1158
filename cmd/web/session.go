package main

const profileIDSessionKey = "profileID"
